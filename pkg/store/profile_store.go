package store

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
)

// DefaultProfile is the profile every installation starts with. It cannot be deleted.
const DefaultProfile = "Mặc định"

const (
	profilesKey      = "profiles"
	activeProfileKey = "active_profile"
)

var (
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")
	ErrDefaultProfile  = errors.New("the default profile cannot be deleted")
	ErrEmptyName       = errors.New("name is required")
)

// ProfileStore keeps the list of profiles and which one is active. Tasks,
// categories and notification settings are stored per profile.
type ProfileStore struct {
	mu       sync.RWMutex
	prefs    fyne.Preferences
	profiles []string
	active   string

	onDelete []func(profile string)
	onSwitch []func(profile string)
}

// NewProfileStore loads profiles from preferences
func NewProfileStore(prefs fyne.Preferences) *ProfileStore {
	ps := &ProfileStore{prefs: prefs}

	if raw := prefs.String(profilesKey); raw != "" {
		if err := json.Unmarshal([]byte(raw), &ps.profiles); err != nil {
			ps.profiles = nil
		}
	}
	if !contains(ps.profiles, DefaultProfile) {
		ps.profiles = append([]string{DefaultProfile}, ps.profiles...)
	}

	ps.active = prefs.StringWithFallback(activeProfileKey, DefaultProfile)
	if !contains(ps.profiles, ps.active) {
		ps.active = DefaultProfile
	}
	return ps
}

// Active returns the active profile name
func (ps *ProfileStore) Active() string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.active
}

// List returns all profile names, default first
func (ps *ProfileStore) List() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return append([]string(nil), ps.profiles...)
}

// Add creates a profile and makes it active
func (ps *ProfileStore) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	ps.mu.Lock()
	if contains(ps.profiles, name) {
		ps.mu.Unlock()
		return ErrProfileExists
	}
	ps.profiles = append(ps.profiles, name)
	ps.active = name
	ps.saveLocked()
	hooks := ps.onSwitch
	ps.mu.Unlock()

	for _, fn := range hooks {
		fn(name)
	}
	return nil
}

// Switch makes an existing profile active
func (ps *ProfileStore) Switch(name string) error {
	ps.mu.Lock()
	if !contains(ps.profiles, name) {
		ps.mu.Unlock()
		return ErrProfileNotFound
	}
	ps.active = name
	ps.saveLocked()
	hooks := ps.onSwitch
	ps.mu.Unlock()

	for _, fn := range hooks {
		fn(name)
	}
	return nil
}

// Delete removes a profile and everything stored for it. Deleting the active
// profile switches back to the default one.
func (ps *ProfileStore) Delete(name string) error {
	if name == DefaultProfile {
		return ErrDefaultProfile
	}

	ps.mu.Lock()
	idx := indexOf(ps.profiles, name)
	if idx < 0 {
		ps.mu.Unlock()
		return ErrProfileNotFound
	}
	ps.profiles = append(ps.profiles[:idx], ps.profiles[idx+1:]...)
	switched := ps.active == name
	if switched {
		ps.active = DefaultProfile
	}
	ps.prefs.RemoveValue(schedulesKeyPrefix + name)
	ps.prefs.RemoveValue(categoriesKeyPrefix + name)
	ps.prefs.RemoveValue(settingsKeyPrefix + name)
	ps.saveLocked()
	deleteHooks, switchHooks := ps.onDelete, ps.onSwitch
	ps.mu.Unlock()

	for _, fn := range deleteHooks {
		fn(name)
	}
	if switched {
		for _, fn := range switchHooks {
			fn(DefaultProfile)
		}
	}
	return nil
}

// OnSwitch registers a callback run after the active profile changes
func (ps *ProfileStore) OnSwitch(fn func(profile string)) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.onSwitch = append(ps.onSwitch, fn)
}

func (ps *ProfileStore) onDeleted(fn func(profile string)) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.onDelete = append(ps.onDelete, fn)
}

func (ps *ProfileStore) saveLocked() {
	if data, err := json.Marshal(ps.profiles); err == nil {
		ps.prefs.SetString(profilesKey, string(data))
	}
	ps.prefs.SetString(activeProfileKey, ps.active)
}

func contains(list []string, s string) bool {
	return indexOf(list, s) >= 0
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
