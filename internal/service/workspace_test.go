package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finnabbear/finnabear-web/internal/domain/ui"
	mockauth "github.com/finnabbear/finnabear-web/internal/mocks/auth"
	mockui "github.com/finnabbear/finnabear-web/internal/mocks/ui"
)

func newRegistry(t *testing.T, prefs *mockui.MemoryPreferenceStore, cfg WorkspacesConfig) *Workspaces {
	t.Helper()
	deps := WorkspaceDeps{Actions: NewAuthActions(AuthActionsOptions{Backend: mockauth.NewStubBackend()})}
	if prefs != nil {
		deps.Preferences = prefs
	}
	return NewWorkspaces(WorkspacesOptions{Config: cfg, Deps: deps})
}

func TestWorkspaces_ResolveCreatesAndReuses(t *testing.T) {
	r := newRegistry(t, nil, WorkspacesConfig{Capacity: 10})
	ctx := context.Background()

	ws, created := r.Resolve(ctx, "")
	require.True(t, created)
	_, err := uuid.Parse(ws.ID)
	require.NoError(t, err)

	again, created := r.Resolve(ctx, ws.ID)
	assert.False(t, created)
	assert.Same(t, ws, again)
	assert.Equal(t, 1, r.Len())
}

func TestWorkspaces_RejectsNonUUIDIDs(t *testing.T) {
	r := newRegistry(t, nil, WorkspacesConfig{})

	ws, created := r.Resolve(context.Background(), "../../etc/passwd")
	assert.True(t, created)
	assert.NotEqual(t, "../../etc/passwd", ws.ID)
}

func TestWorkspaces_IsolatedContainers(t *testing.T) {
	r := newRegistry(t, nil, WorkspacesConfig{})
	ctx := context.Background()

	a, _ := r.Resolve(ctx, "")
	b, _ := r.Resolve(ctx, "")

	a.Loading.Begin()
	a.Modal.OpenInfo(ui.Options{Title: "only a"})

	assert.False(t, b.Loading.IsLoading())
	assert.False(t, b.Modal.Snapshot().IsOpen)
}

func TestWorkspaces_IdleEviction(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	r := newRegistry(t, nil, WorkspacesConfig{Capacity: 10, IdleTTL: time.Minute, Now: clock.Now})

	ws, _ := r.Resolve(context.Background(), "")
	clock.Advance(2 * time.Minute)

	_, ok := r.Get(ws.ID)
	assert.False(t, ok)
}

func TestWorkspace_PreferencesMirroredAndRestored(t *testing.T) {
	store := mockui.NewMemoryPreferenceStore()
	ctx := context.Background()

	first := newRegistry(t, store, WorkspacesConfig{})
	ws, _ := first.Resolve(ctx, "")
	ws.SetTheme(ctx, ui.PreferenceDark)
	assert.True(t, ws.ToggleSidebar(ctx))
	assert.Equal(t, 2, store.Saves())

	// A fresh registry stands in for a restarted process.
	second := newRegistry(t, store, WorkspacesConfig{})
	restored, created := second.Resolve(ctx, ws.ID)
	require.True(t, created)
	assert.Equal(t, ui.Preferences{Theme: ui.PreferenceDark, SidebarOpen: true}, restored.Preferences())
	assert.False(t, restored.Modal.Snapshot().IsOpen)
	assert.True(t, restored.Auth.Snapshot().IsLoading, "auth state is never persisted")
}

func TestWorkspace_PreferenceStoreFailureIsNotFatal(t *testing.T) {
	store := mockui.NewMemoryPreferenceStore()
	store.Err = errors.New("redis down")
	r := newRegistry(t, store, WorkspacesConfig{})
	ctx := context.Background()

	ws, _ := r.Resolve(ctx, "")
	assert.Equal(t, ui.DefaultPreferences(), ws.Preferences())

	ws.SetSidebar(ctx, true)
	ws.SetTheme(ctx, ui.PreferenceLight)
	assert.Equal(t, ui.Preferences{Theme: ui.PreferenceLight, SidebarOpen: true}, ws.Preferences())
}

func TestWorkspace_Snapshot(t *testing.T) {
	r := newRegistry(t, nil, WorkspacesConfig{})
	ws, _ := r.Resolve(context.Background(), "")
	ws.Loading.Begin()

	snap := ws.Snapshot(true)
	assert.Equal(t, ui.ModeDark, snap.Theme.Applied)
	assert.Equal(t, ui.PreferenceSystem, snap.Theme.Preference)
	assert.True(t, snap.Loading.IsLoading)
	assert.False(t, snap.SidebarOpen)
	assert.True(t, snap.Auth.IsLoading)
}

func TestNewWorkspaces_RequiresActions(t *testing.T) {
	assert.Panics(t, func() { NewWorkspaces(WorkspacesOptions{}) })
}
