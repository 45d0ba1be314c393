// Package ui contains hand-written doubles for UI preference ports.
package ui

import (
	"context"
	"errors"
	"sync"

	domainui "github.com/finnabbear/finnabear-web/internal/domain/ui"
	"github.com/finnabbear/finnabear-web/internal/ports"
)

var _ ports.PreferenceStore = (*MemoryPreferenceStore)(nil)

// MemoryPreferenceStore is an in-memory preference store for unit tests.
// Err, when set, is returned from every call.
type MemoryPreferenceStore struct {
	mu    sync.Mutex
	prefs map[string]domainui.Preferences
	saves int
	Err   error
}

// NewMemoryPreferenceStore creates an empty store.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: make(map[string]domainui.Preferences)}
}

func (m *MemoryPreferenceStore) Load(_ context.Context, id string) (domainui.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return domainui.Preferences{}, m.Err
	}
	p, ok := m.prefs[id]
	if !ok {
		return domainui.Preferences{}, ports.ErrPreferencesNotFound
	}
	return p, nil
}

func (m *MemoryPreferenceStore) Save(_ context.Context, id string, prefs domainui.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if id == "" {
		return errors.New("workspace ID cannot be empty")
	}
	m.prefs[id] = prefs
	m.saves++
	return nil
}

func (m *MemoryPreferenceStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.prefs, id)
	return nil
}

// Saves reports how many successful saves happened.
func (m *MemoryPreferenceStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
