//go:build darwin

package platform

/*
#include <stdint.h>

// Implemented in mainthread_darwin.m; the preamble of a file with exports
// may only hold declarations.
extern void meteobarRunOnMain(uintptr_t handle);
*/
import "C"

import "runtime/cgo"

//export meteobarMainCallback
func meteobarMainCallback(handle C.uintptr_t) {
	cgo.Handle(handle).Value().(func())()
}

// RunOnMain runs fn on the AppKit main thread and waits for it. The host
// event loop must be running, or about to run, on the main thread.
func RunOnMain(fn func()) {
	h := cgo.NewHandle(fn)
	defer h.Delete()
	C.meteobarRunOnMain(C.uintptr_t(h))
}
