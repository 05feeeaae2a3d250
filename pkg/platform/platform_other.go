//go:build !darwin

package platform

// HideDockIcon does nothing outside macOS
func HideDockIcon() {}

// IsAppActive always returns true outside macOS
func IsAppActive() bool {
	return true
}

// BringToFront does nothing outside macOS; window managers raise new windows themselves
func BringToFront() bool {
	return false
}
