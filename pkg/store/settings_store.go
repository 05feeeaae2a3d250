package store

import (
	"encoding/json"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/borgmon/schedule-bell/pkg/models"
)

const settingsKeyPrefix = "settings-"

// SettingsStore handles configuration persistence using Fyne preferences.
// App-wide config is shared; notification settings belong to the active profile.
type SettingsStore struct {
	prefs    fyne.Preferences
	profiles *ProfileStore

	mu     sync.Mutex
	cached map[string]models.NotificationSettings // by profile
}

// NewSettingsStore creates a new SettingsStore instance
func NewSettingsStore(prefs fyne.Preferences, profiles *ProfileStore) *SettingsStore {
	ss := &SettingsStore{
		prefs:    prefs,
		profiles: profiles,
		cached:   make(map[string]models.NotificationSettings),
	}
	profiles.onDeleted(ss.forget)
	return ss
}

// LoadConfig loads app-wide configuration from preferences
func (ss *SettingsStore) LoadConfig() *models.Config {
	config := &models.Config{
		AutoStart:       ss.prefs.BoolWithFallback("auto_start", false),
		UpdateInterval:  ss.prefs.IntWithFallback("update_interval", 30),
		HoldTimeSeconds: ss.prefs.IntWithFallback("hold_time_seconds", 2),
	}

	// Load iCal sources from JSON string
	icalSourcesJSON := ss.prefs.String("ical_sources")
	if icalSourcesJSON != "" {
		if err := json.Unmarshal([]byte(icalSourcesJSON), &config.ICalSources); err != nil {
			config.ICalSources = []models.ICalSource{}
		}
	} else {
		config.ICalSources = []models.ICalSource{}
	}

	return config
}

// SaveConfig saves app-wide configuration to preferences
func (ss *SettingsStore) SaveConfig(config *models.Config) {
	ss.prefs.SetBool("auto_start", config.AutoStart)
	ss.prefs.SetInt("update_interval", config.UpdateInterval)
	ss.prefs.SetInt("hold_time_seconds", config.HoldTimeSeconds)

	if icalSourcesJSON, err := json.Marshal(config.ICalSources); err == nil {
		ss.prefs.SetString("ical_sources", string(icalSourcesJSON))
	}
}

// Notification returns the active profile's notification settings. Fields missing
// from stored data keep their defaults.
func (ss *SettingsStore) Notification() models.NotificationSettings {
	profile := ss.profiles.Active()

	ss.mu.Lock()
	defer ss.mu.Unlock()

	if settings, ok := ss.cached[profile]; ok {
		return settings
	}
	settings := ss.load(profile)
	ss.cached[profile] = settings
	return settings
}

func (ss *SettingsStore) load(profile string) models.NotificationSettings {
	settings := models.DefaultNotificationSettings()

	raw := ss.prefs.String(settingsKeyPrefix + profile)
	if raw == "" {
		return settings
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		log.Printf("Failed to decode settings for profile %q, using defaults: %v", profile, err)
		return models.DefaultNotificationSettings()
	}
	return settings
}

// SaveNotification stores notification settings for the active profile
func (ss *SettingsStore) SaveNotification(settings models.NotificationSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	profile := ss.profiles.Active()

	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.prefs.SetString(settingsKeyPrefix+profile, string(data))
	ss.cached[profile] = settings
	return nil
}

// forget drops cached settings for a deleted profile
func (ss *SettingsStore) forget(profile string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	delete(ss.cached, profile)
}
