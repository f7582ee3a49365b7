//go:build !darwin

package platform

import "go.uber.org/zap"

type noopPolicy struct{}

// New returns a policy that does nothing; this platform has no Dock.
func New(_ *zap.Logger) ActivationPolicy {
	return noopPolicy{}
}

func (noopPolicy) Apply() error { return nil }
