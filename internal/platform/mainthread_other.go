//go:build !darwin

package platform

// RunOnMain runs fn on the calling goroutine. Only AppKit pins UI calls to
// the main thread.
func RunOnMain(fn func()) {
	fn()
}
