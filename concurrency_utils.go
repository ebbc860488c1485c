package jsondoc

import "sync"

// SyncValue guards a Value tree with a read-write lock. Values do not
// synchronize their share counts, so a tree handed between goroutines must
// go through a SyncValue or be deep-cloned first.
type SyncValue struct {
	mu sync.RWMutex
	v  Value
}

// NewSyncValue returns a SyncValue holding a deep clone of v
func NewSyncValue(v Value) *SyncValue {
	return &SyncValue{v: v.Clone()}
}

// Load returns a deep clone of the guarded value
func (s *SyncValue) Load() Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.Clone()
}

// Store replaces the guarded value with a deep clone of v
func (s *SyncValue) Store(v Value) {
	c := v.Clone()
	s.mu.Lock()
	old := s.v
	s.v = c
	s.mu.Unlock()
	old.Release()
}

// View runs fn under the read lock. fn must not keep v or anything read
// from it after returning, and must not call Copy on it.
func (s *SyncValue) View(fn func(v Value)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.v.view())
}

// Update runs fn with exclusive access to the guarded value
func (s *SyncValue) Update(fn func(v *Value)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.v)
}
