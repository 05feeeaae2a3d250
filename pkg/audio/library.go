package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// ErrNoRingtones is returned when nothing at all can be played
var ErrNoRingtones = errors.New("no ringtones available")

// BuiltinSource marks the generated ringtone
const BuiltinSource = "builtin:" + DefaultRingtoneName

// Ringtone is a playable sound known to the library
type Ringtone struct {
	Name   string
	Source string // file path, or BuiltinSource
}

// Builtin reports whether the ringtone is generated rather than read from disk
func (r Ringtone) Builtin() bool {
	return r.Source == BuiltinSource
}

// Library lists the built-in ringtone plus the *.wav files in a directory.
// It uses an afero.Fs so tests can run against afero.NewMemMapFs().
type Library struct {
	fs  afero.Fs
	dir string

	mu        sync.RWMutex
	ringtones []Ringtone
	onChange  func()
}

// NewLibrary creates a library over dir and loads it. An empty dir means only
// the built-in ringtone is available.
func NewLibrary(fs afero.Fs, dir string) *Library {
	l := &Library{fs: fs, dir: dir}
	if err := l.Reload(); err != nil {
		log.Printf("Failed to load ringtones from %s: %v", dir, err)
	}
	return l
}

// Dir returns the ringtone directory
func (l *Library) Dir() string {
	return l.dir
}

// OnChange registers a callback run after the library is reloaded by Watch
func (l *Library) OnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Reload rescans the ringtone directory
func (l *Library) Reload() error {
	ringtones := []Ringtone{{Name: DefaultRingtoneName, Source: BuiltinSource}}

	if l.dir != "" {
		exists, err := afero.DirExists(l.fs, l.dir)
		if err != nil {
			return fmt.Errorf("check ringtone dir: %w", err)
		}
		if exists {
			entries, err := afero.ReadDir(l.fs, l.dir)
			if err != nil {
				return fmt.Errorf("read ringtone dir: %w", err)
			}
			var found []Ringtone
			for _, entry := range entries {
				if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
					continue
				}
				found = append(found, Ringtone{
					Name:   strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
					Source: filepath.Join(l.dir, entry.Name()),
				})
			}
			sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
			ringtones = append(ringtones, found...)
		}
	}

	l.mu.Lock()
	l.ringtones = ringtones
	l.mu.Unlock()
	return nil
}

// List returns all ringtones, built-in first
func (l *Library) List() []Ringtone {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Ringtone(nil), l.ringtones...)
}

// Names returns the ringtone names for selection widgets
func (l *Library) Names() []string {
	list := l.List()
	names := make([]string, len(list))
	for i, r := range list {
		names[i] = r.Name
	}
	return names
}

// Resolve finds a ringtone by name or source path. Unknown identifiers fall back
// to the default ringtone, then to the first available one.
func (l *Library) Resolve(identifier string) (Ringtone, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.ringtones {
		if r.Name == identifier {
			return r, nil
		}
	}
	for _, r := range l.ringtones {
		if r.Source == identifier {
			return r, nil
		}
	}
	for _, r := range l.ringtones {
		if r.Name == DefaultRingtoneName {
			return r, nil
		}
	}
	if len(l.ringtones) > 0 {
		return l.ringtones[0], nil
	}
	return Ringtone{}, ErrNoRingtones
}

// Load returns the WAV data of a ringtone
func (l *Library) Load(r Ringtone) ([]byte, error) {
	if r.Builtin() {
		return DefaultTone(), nil
	}
	data, err := afero.ReadFile(l.fs, r.Source)
	if err != nil {
		return nil, fmt.Errorf("read ringtone %q: %w", r.Name, err)
	}
	return data, nil
}

// Watch reloads the library whenever the ringtone directory changes, until ctx
// is cancelled. It watches the real filesystem path.
func (l *Library) Watch(ctx context.Context) error {
	if l.dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch %s: %w", l.dir, err)
	}

	// Copying a file produces a burst of events
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
				debounce = time.After(300 * time.Millisecond)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Ringtone watcher error: %v", err)
		case <-debounce:
			debounce = nil
			if err := l.Reload(); err != nil {
				log.Printf("Failed to reload ringtones: %v", err)
				continue
			}
			log.Printf("Ringtones reloaded: %d available", len(l.List()))
			l.mu.RLock()
			fn := l.onChange
			l.mu.RUnlock()
			if fn != nil {
				fn()
			}
		}
	}
}
