package models

// Config holds application-wide configuration shared by all profiles
type Config struct {
	AutoStart       bool         `json:"auto_start"`
	ICalSources     []ICalSource `json:"ical_sources"`
	UpdateInterval  int          `json:"update_interval"`   // minutes
	HoldTimeSeconds int          `json:"hold_time_seconds"` // "Mark done" button hold time
}

// ICalSource represents a named iCal calendar whose weekly events become tasks
type ICalSource struct {
	ID   string `json:"id"`   // Unique identifier
	Name string `json:"name"` // Display name
	URL  string `json:"url"`  // iCal URL
}

// Validate checks if the iCal source has required fields
func (s *ICalSource) Validate() bool {
	return s.Name != "" && s.URL != ""
}

// Default notification values
const (
	DefaultRingtoneName          = "Báo thức số"
	DefaultRingtoneDuration      = 3 // seconds
	DefaultVoiceURI              = "default"
	DefaultVolume                = 0.8
	DefaultNotificationPrefix    = "Đã đến giờ:"
	DefaultPreNotificationTime   = 5 // minutes
	DefaultPreNotificationPrefix = "Sắp đến giờ:"
	DefaultUserName              = "Sếp"
	FallbackUserName             = "bạn"
)

// NotificationSettings governs how and when notifications fire. One value per profile.
type NotificationSettings struct {
	Ringtone         string  `json:"ringtoneUrl"`      // ringtone name (older data may hold a path)
	RingtoneDuration int     `json:"ringtoneDuration"` // seconds
	VoiceURI         string  `json:"voiceURI"`
	Volume           float64 `json:"volume"` // 0.0 - 1.0

	NotificationPrefix string `json:"notificationPrefix"`

	PreNotificationEnabled bool   `json:"preNotificationEnabled"`
	PreNotificationTime    int    `json:"preNotificationTime"` // minutes
	PreNotificationPrefix  string `json:"preNotificationPrefix"`

	WorkdayNotificationsEnabled bool   `json:"workdayNotificationsEnabled"`
	UserName                    string `json:"userName"`
	WorkStartTime               string `json:"workStartTime"`
	LunchStartTime              string `json:"lunchStartTime"`
	LunchEndTime                string `json:"lunchEndTime"`
	WorkEndTime                 string `json:"workEndTime"`
}

// DefaultNotificationSettings returns the settings a new profile starts with.
// Milestone times are left empty until the user configures them.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Ringtone:                    DefaultRingtoneName,
		RingtoneDuration:            DefaultRingtoneDuration,
		VoiceURI:                    DefaultVoiceURI,
		Volume:                      DefaultVolume,
		NotificationPrefix:          DefaultNotificationPrefix,
		PreNotificationEnabled:      false,
		PreNotificationTime:         DefaultPreNotificationTime,
		PreNotificationPrefix:       DefaultPreNotificationPrefix,
		WorkdayNotificationsEnabled: true,
		UserName:                    DefaultUserName,
	}
}

// ClampVolume keeps the volume in the 0.0 - 1.0 range
func (s *NotificationSettings) ClampVolume() float64 {
	if s.Volume < 0 {
		return 0
	}
	if s.Volume > 1 {
		return 1
	}
	return s.Volume
}

// DisplayName returns the configured user name or the fallback word
func (s *NotificationSettings) DisplayName() string {
	if s.UserName == "" {
		return FallbackUserName
	}
	return s.UserName
}
