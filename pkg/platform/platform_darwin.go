//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

void setAccessoryPolicy(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}

int isAppActive(void) {
    return [NSApp isActive] ? 1 : 0;
}

void activateApp(void) {
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"
import "log"

// HideDockIcon makes the app a menu bar only accessory
func HideDockIcon() {
	log.Println("Running as menu bar accessory")
	C.setAccessoryPolicy()
}

// IsAppActive reports whether the app currently owns keyboard focus
func IsAppActive() bool {
	return C.isAppActive() == 1
}

// BringToFront activates the app so a reminder popup is not hidden behind
// other windows. It reports whether activation was needed.
func BringToFront() bool {
	if IsAppActive() {
		return false
	}
	C.activateApp()
	return true
}
