package store

import (
	"sort"
	"sync"

	"github.com/borgmon/schedule-bell/pkg/models"
)

// FiredSet is the per-day ledger of notifications that already fired.
// It is cleared once a day at midnight and is not persisted.
type FiredSet struct {
	mu   sync.RWMutex
	keys map[models.FiredKey]struct{}
}

// NewFiredSet creates an empty FiredSet
func NewFiredSet() *FiredSet {
	return &FiredSet{keys: make(map[models.FiredKey]struct{})}
}

// Add merges keys into the current day's set
func (fs *FiredSet) Add(keys ...models.FiredKey) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, k := range keys {
		fs.keys[k] = struct{}{}
	}
}

// Contains reports whether key already fired today
func (fs *FiredSet) Contains(key models.FiredKey) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, ok := fs.keys[key]
	return ok
}

// Clear empties the set for a new day
func (fs *FiredSet) Clear() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.keys = make(map[models.FiredKey]struct{})
}

// Len returns the number of keys fired today
func (fs *FiredSet) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return len(fs.keys)
}

// Keys returns the fired keys sorted lexically
func (fs *FiredSet) Keys() []models.FiredKey {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	result := make([]models.FiredKey, 0, len(fs.keys))
	for k := range fs.keys {
		result = append(result, k)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
