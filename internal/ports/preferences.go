package ports

import (
	"context"
	"errors"

	"github.com/finnabbear/finnabear-web/internal/domain/ui"
)

// ErrPreferencesNotFound is returned when no preferences were stored for a workspace.
var ErrPreferencesNotFound = errors.New("preferences not found")

// PreferenceStore mirrors theme and sidebar preferences outside the process.
type PreferenceStore interface {
	Load(ctx context.Context, workspaceID string) (ui.Preferences, error)
	Save(ctx context.Context, workspaceID string, prefs ui.Preferences) error
	Delete(ctx context.Context, workspaceID string) error
}
