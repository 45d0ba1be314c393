package ui

import "sync"

// Loading is a reference counter shared by unrelated call sites.
// "Loading" is derived (count > 0) so overlapping operations compose.
type Loading struct {
	mu    sync.Mutex
	count int
}

// NewLoading returns an idle counter.
func NewLoading() *Loading { return &Loading{} }

// Begin registers one outstanding operation and returns the new count.
func (l *Loading) Begin() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count++
	return l.count
}

// End releases one outstanding operation. The count never drops below zero.
func (l *Loading) End() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count > 0 {
		l.count--
	}
	return l.count
}

// Count returns the number of outstanding operations.
func (l *Loading) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// IsLoading reports whether at least one Begin is unmatched.
func (l *Loading) IsLoading() bool { return l.Count() > 0 }

// Track wraps fn in a Begin/End pair, releasing even if fn panics.
func (l *Loading) Track(fn func() error) error {
	l.Begin()
	defer l.End()
	return fn()
}

// LoadingState is the snapshot form used in JSON and templates.
type LoadingState struct {
	Count     int  `json:"count"`
	IsLoading bool `json:"is_loading"`
}

// Snapshot returns the current state.
func (l *Loading) Snapshot() LoadingState {
	n := l.Count()
	return LoadingState{Count: n, IsLoading: n > 0}
}
