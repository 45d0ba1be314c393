package ui

import "sync"

// Sidebar tracks sidebar visibility, independent of all other state.
type Sidebar struct {
	mu   sync.Mutex
	open bool
}

// NewSidebar starts closed.
func NewSidebar() *Sidebar { return &Sidebar{} }

// Toggle flips visibility and returns the new value.
func (s *Sidebar) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

// SetOpen sets visibility explicitly.
func (s *Sidebar) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}

// IsOpen reports visibility.
func (s *Sidebar) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}
