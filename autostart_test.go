package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLoginItem struct {
	enabled bool
	fail    error
	calls   []string
}

func (f *fakeLoginItem) IsEnabled() bool { return f.enabled }

func (f *fakeLoginItem) Enable() error {
	f.calls = append(f.calls, "enable")
	if f.fail != nil {
		return f.fail
	}
	f.enabled = true
	return nil
}

func (f *fakeLoginItem) Disable() error {
	f.calls = append(f.calls, "disable")
	if f.fail != nil {
		return f.fail
	}
	f.enabled = false
	return nil
}

func TestSyncLoginItem(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		enable    bool
		wantCalls []string
	}{
		{"enable when missing", false, true, []string{"enable"}},
		{"already enabled", true, true, nil},
		{"disable when present", true, false, []string{"disable"}},
		{"already disabled", false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &fakeLoginItem{enabled: tt.enabled}

			assert.NoError(t, syncLoginItem(item, tt.enable))
			assert.Equal(t, tt.wantCalls, item.calls)
			assert.Equal(t, tt.enable, item.enabled)
		})
	}
}

func TestSyncLoginItem_Error(t *testing.T) {
	item := &fakeLoginItem{fail: errors.New("permission denied")}

	assert.EqualError(t, syncLoginItem(item, true), "permission denied")
	assert.False(t, item.enabled)
}

func TestIsTemporaryBinary(t *testing.T) {
	tmp := t.TempDir()

	assert.True(t, isTemporaryBinary(filepath.Join(tmp, "go-build123", "exe", "schedule-bell"), tmp))
	assert.False(t, isTemporaryBinary(filepath.Join(filepath.Dir(tmp), "schedule-bell"), tmp))
	assert.False(t, isTemporaryBinary(filepath.Join(tmp+"-other", "schedule-bell"), tmp))
	assert.False(t, isTemporaryBinary("/usr/local/bin/schedule-bell", ""))
}
