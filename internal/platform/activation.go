// Package platform applies process-wide presentation settings that only some
// operating systems have.
package platform

// ActivationPolicy switches how the OS presents the running process
type ActivationPolicy interface {
	Apply() error
}
