//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

// Returns -1 off the main thread, 0 if AppKit refused the policy, 1 on success.
static int meteobarSetAccessoryPolicy(void) {
    if (![NSThread isMainThread]) {
        return -1;
    }
    BOOL ok = [[NSApplication sharedApplication] setActivationPolicy:NSApplicationActivationPolicyAccessory];
    return ok ? 1 : 0;
}
*/
import "C"

import (
	"errors"

	"go.uber.org/zap"
)

// accessoryPolicy removes the Dock icon and the application menu.
type accessoryPolicy struct {
	logger *zap.Logger
}

// New returns the accessory activation policy
func New(logger *zap.Logger) ActivationPolicy {
	return accessoryPolicy{logger: logger}
}

// Apply must run on the main thread after the host has finished launching,
// which sets the regular policy on its way up; use RunOnMain. Calling it off
// the main thread is a startup sequencing bug and panics.
func (p accessoryPolicy) Apply() error {
	switch C.meteobarSetAccessoryPolicy() {
	case -1:
		panic("platform: activation policy must be applied on the main thread")
	case 0:
		return errors.New("AppKit rejected the accessory activation policy")
	}
	p.logger.Info("Activation policy set", zap.String("policy", "accessory"))
	return nil
}
