package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - backend.go: Backend API client configuration
//   - http.go: HTTP server and cookie configuration
//   - redis.go: Redis preference mirror configuration
//   - workspace.go: Per-browser UI workspace configuration
//   - observability.go: StatsD request metrics
type AppConfig struct {
	// IsDev controls development mode behavior (insecure cookies, verbose logs).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// NodeEnv mirrors NODE_ENV. Session cookies are Secure only when it is "production".
	NodeEnv string `env:"NODE_ENV" envDefault:""`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Backend API configuration
	Backend BackendConfig `envPrefix:"BACKEND_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Redis configuration (optional preference mirror)
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Workspace registry configuration
	Workspace WorkspaceConfig `envPrefix:"WORKSPACE_"`

	// Request metrics (optional)
	Metrics MetricsConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Backend.Sanitize()
	c.HTTP.Sanitize()
	c.Redis.Sanitize()
	c.Workspace.Sanitize()
	c.Metrics.Sanitize()

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if c.NodeEnv == "" {
		c.NodeEnv = os.Getenv("NODE_ENV")
	}
	c.NodeEnv = strings.ToLower(strings.TrimSpace(c.NodeEnv))
	if !c.IsDev {
		c.IsDev = c.NodeEnv == "development" || c.NodeEnv == "dev"
	}
}

// SecureCookies reports whether session cookies must carry the Secure attribute.
// Only NODE_ENV=production turns it on; DEV=true always turns it off.
func (c *AppConfig) SecureCookies() bool {
	return !c.IsDev && c.NodeEnv == "production"
}
