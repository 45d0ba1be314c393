package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/finnabbear/finnabear-web/internal/domain/auth"
	"github.com/finnabbear/finnabear-web/internal/domain/ui"
	"github.com/finnabbear/finnabear-web/internal/ports"
)

// Workspace owns every UI state container of one browser.
// Containers are independent; there is no transaction across them.
type Workspace struct {
	ID      string
	Auth    *AuthSession
	Modal   *ui.Modal
	Loading *ui.Loading
	Theme   *ui.Theme
	Sidebar *ui.Sidebar

	prefs  ports.PreferenceStore
	logger *slog.Logger
}

// Snapshot is the combined read-only view of a workspace.
type Snapshot struct {
	Auth        domainauth.State `json:"auth"`
	Modal       ui.ModalState    `json:"modal"`
	Loading     ui.LoadingState  `json:"loading"`
	Theme       ui.ThemeState    `json:"theme"`
	SidebarOpen bool             `json:"sidebar_open"`
}

// Snapshot reads every container; systemDark is the live OS color-scheme signal.
func (w *Workspace) Snapshot(systemDark bool) Snapshot {
	return Snapshot{
		Auth:        w.Auth.Snapshot(),
		Modal:       w.Modal.Snapshot(),
		Loading:     w.Loading.Snapshot(),
		Theme:       w.Theme.Snapshot(systemDark),
		SidebarOpen: w.Sidebar.IsOpen(),
	}
}

// SetTheme stores the preference and mirrors it to the preference store.
func (w *Workspace) SetTheme(ctx context.Context, p ui.Preference) {
	w.Theme.Set(p)
	w.persist(ctx)
}

// ToggleSidebar flips the sidebar and returns the new visibility.
func (w *Workspace) ToggleSidebar(ctx context.Context) bool {
	open := w.Sidebar.Toggle()
	w.persist(ctx)
	return open
}

// SetSidebar sets the sidebar visibility explicitly.
func (w *Workspace) SetSidebar(ctx context.Context, open bool) {
	w.Sidebar.SetOpen(open)
	w.persist(ctx)
}

// Preferences returns the persisted subset of the workspace.
func (w *Workspace) Preferences() ui.Preferences {
	return ui.Preferences{Theme: w.Theme.Preference(), SidebarOpen: w.Sidebar.IsOpen()}
}

// persist is best-effort; the in-memory value stays authoritative.
func (w *Workspace) persist(ctx context.Context) {
	if w.prefs == nil {
		return
	}
	if err := w.prefs.Save(ctx, w.ID, w.Preferences()); err != nil {
		w.logger.WarnContext(ctx, "save preferences failed", "workspace", w.ID, "error", err)
	}
}

func (w *Workspace) restore(ctx context.Context) {
	if w.prefs == nil {
		return
	}
	prefs, err := w.prefs.Load(ctx, w.ID)
	if err != nil {
		if !errors.Is(err, ports.ErrPreferencesNotFound) {
			w.logger.WarnContext(ctx, "load preferences failed", "workspace", w.ID, "error", err)
		}
		return
	}
	w.Theme.Set(prefs.Theme)
	w.Sidebar.SetOpen(prefs.SidebarOpen)
}

// WorkspacesConfig bounds the registry.
type WorkspacesConfig struct {
	Capacity int
	IdleTTL  time.Duration
	Now      func() time.Time
}

// WorkspaceDeps are shared by every workspace.
type WorkspaceDeps struct {
	Actions     *AuthActions          // Required
	Preferences ports.PreferenceStore // Optional
}

// WorkspacesOptions groups dependencies for Workspaces.
type WorkspacesOptions struct {
	Config WorkspacesConfig
	Deps   WorkspaceDeps
	Logger *slog.Logger
}

// Workspaces maps browser ids to live workspaces.
type Workspaces struct {
	cache  *idleLRU[*Workspace]
	deps   WorkspaceDeps
	logger *slog.Logger
}

// NewWorkspaces constructs the registry. It panics when Actions is nil.
func NewWorkspaces(opts WorkspacesOptions) *Workspaces {
	if opts.Deps.Actions == nil {
		panic("service: Workspaces requires auth actions")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspaces{
		cache: newIdleLRU(idleLRUConfig[*Workspace]{
			Capacity: opts.Config.Capacity,
			IdleTTL:  opts.Config.IdleTTL,
			Now:      opts.Config.Now,
		}),
		deps:   opts.Deps,
		logger: logger,
	}
}

// Resolve returns the workspace for id, creating one when id is unknown.
// Ids that are not UUIDs are replaced so clients cannot pick arbitrary keys.
// created reports whether the caller must hydrate and hand out the id.
func (r *Workspaces) Resolve(ctx context.Context, id string) (ws *Workspace, created bool) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	ws, created = r.cache.GetOrCreate(id, func() *Workspace { return r.build(id) })
	if created {
		ws.restore(ctx)
		r.logger.DebugContext(ctx, "workspace created", "workspace", id)
	}
	return ws, created
}

// Get returns a live workspace without creating one.
func (r *Workspaces) Get(id string) (*Workspace, bool) {
	return r.cache.Get(id)
}

// Len reports the number of tracked workspaces.
func (r *Workspaces) Len() int { return r.cache.Len() }

// Sweep evicts idle workspaces.
func (r *Workspaces) Sweep() int { return r.cache.Sweep() }

// RunSweeper evicts idle workspaces every interval until ctx is done.
func (r *Workspaces) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.DebugContext(ctx, "swept idle workspaces", "count", n)
			}
		}
	}
}

func (r *Workspaces) build(id string) *Workspace {
	return &Workspace{
		ID:      id,
		Auth:    NewAuthSession(r.deps.Actions),
		Modal:   ui.NewModal(r.logger.With("workspace", id)),
		Loading: ui.NewLoading(),
		Theme:   ui.NewTheme(),
		Sidebar: ui.NewSidebar(),
		prefs:   r.deps.Preferences,
		logger:  r.logger,
	}
}
