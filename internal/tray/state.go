package tray

import "sync"

// State is the process-wide record of the active tray icon. The ID is written
// once and read under the lock by every title update.
type State struct {
	mu  sync.Mutex
	id  ID
	set bool
}

// ID returns the stored tray ID
func (s *State) ID() (ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.set
}

func (s *State) store(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set {
		return ErrAlreadyCreated
	}
	s.id = id
	s.set = true
	return nil
}

// with runs fn with the stored ID while holding the lock. It reports whether
// an ID was stored.
func (s *State) with(fn func(id ID)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set {
		return false
	}
	fn(s.id)
	return true
}
