package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-autostart"
)

var errTemporaryBinary = errors.New("running from a temporary build, not registering it to start at login")

// loginItem is the part of autostart.App that setupAutostart needs
type loginItem interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

// setupAutostart makes the login entry match enable
func setupAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	if enable && isTemporaryBinary(execPath, os.TempDir()) {
		return errTemporaryBinary
	}

	app := &autostart.App{
		Name:        "schedule-bell",
		DisplayName: "Schedule Bell",
		Exec:        []string{execPath},
	}
	return syncLoginItem(app, enable)
}

func syncLoginItem(item loginItem, enable bool) error {
	switch {
	case enable && !item.IsEnabled():
		if err := item.Enable(); err != nil {
			log.Printf("Failed to enable autostart: %v", err)
			return err
		}
		log.Println("Autostart enabled")
	case !enable && item.IsEnabled():
		if err := item.Disable(); err != nil {
			log.Printf("Failed to disable autostart: %v", err)
			return err
		}
		log.Println("Autostart disabled")
	}
	return nil
}

// isTemporaryBinary reports whether path lives under tmp, as `go run` builds do
func isTemporaryBinary(path, tmp string) bool {
	if tmp == "" {
		return false
	}
	if resolved, err := filepath.EvalSymlinks(tmp); err == nil {
		tmp = resolved
	}
	rel, err := filepath.Rel(tmp, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
