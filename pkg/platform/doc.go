// Package platform wraps the few native calls the tray app needs to stay out
// of the dock and to raise reminder popups.
package platform
