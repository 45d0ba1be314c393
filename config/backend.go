package config

import (
	"os"
	"strings"
	"time"
)

// DefaultBackendURL is used when neither BACKEND_API_URL nor NEXT_PUBLIC_API_URL is set.
const DefaultBackendURL = "http://localhost:8080/api/v1"

// BackendConfig contains configuration for the upstream backend API.
type BackendConfig struct {
	// URL is the base URL of the backend API. NEXT_PUBLIC_API_URL is honoured
	// as a fallback so existing frontend deployments keep working.
	URL string `env:"API_URL"`

	// Timeout bounds a single backend call. Zero means no timeout; a slow
	// backend simply keeps the caller's loading state active.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"0s"`

	// TokenPath, UserPath, ProfilePath and MessagePath are JMESPath expressions
	// used to pull fields out of backend responses.
	TokenPath   string `env:"TOKEN_PATH"   envDefault:"data.token || token"`
	UserPath    string `env:"USER_PATH"    envDefault:"data.user || user"`
	ProfilePath string `env:"PROFILE_PATH" envDefault:"@"`
	MessagePath string `env:"MESSAGE_PATH" envDefault:"message || error.message"`
}

// Sanitize fills in the base URL fallback chain and trims expressions.
func (b *BackendConfig) Sanitize() {
	b.URL = strings.TrimSpace(b.URL)
	if b.URL == "" {
		b.URL = strings.TrimSpace(os.Getenv("NEXT_PUBLIC_API_URL"))
	}
	if b.URL == "" {
		b.URL = DefaultBackendURL
	}
	b.URL = strings.TrimRight(b.URL, "/")

	if b.Timeout < 0 {
		b.Timeout = 0
	}

	b.TokenPath = strings.TrimSpace(b.TokenPath)
	b.UserPath = strings.TrimSpace(b.UserPath)
	b.ProfilePath = strings.TrimSpace(b.ProfilePath)
	b.MessagePath = strings.TrimSpace(b.MessagePath)
}
