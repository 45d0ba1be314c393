package config

import "time"

// WorkspaceConfig bounds the in-memory registry of per-browser UI workspaces.
type WorkspaceConfig struct {
	// Capacity is the maximum number of live workspaces kept in memory.
	Capacity int `env:"CAPACITY" envDefault:"10000"`

	// IdleTTL evicts workspaces that have not been touched for this long.
	IdleTTL time.Duration `env:"IDLE_TTL" envDefault:"12h"`

	// SweepInterval is how often idle workspaces are evicted in the background.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`

	// CookieName identifies the browser's workspace.
	CookieName string `env:"COOKIE_NAME" envDefault:"ui_session"`
}

// Sanitize applies guardrails to workspace configuration values.
func (w *WorkspaceConfig) Sanitize() {
	if w.Capacity <= 0 {
		w.Capacity = 10000
	}
	if w.IdleTTL <= 0 {
		w.IdleTTL = 12 * time.Hour
	}
	if w.SweepInterval <= 0 {
		w.SweepInterval = 5 * time.Minute
	}
	if w.CookieName == "" {
		w.CookieName = "ui_session"
	}
}
