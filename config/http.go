package config

import (
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":3000"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SessionCookieMaxAge applies to accessToken and userData alike, in seconds.
	// Zero keeps them as browser-session cookies.
	SessionCookieMaxAge int `env:"SESSION_COOKIE_MAX_AGE" envDefault:"0"`

	// WriteTimeout bounds writing a response. Zero derives it from BACKEND_TIMEOUT,
	// which leaves it unbounded when backend calls are unbounded.
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"0s"`

	// CSRFEnabled toggles double-submit CSRF protection on state-changing routes.
	CSRFEnabled bool `env:"HTTP_CSRF_ENABLED" envDefault:"true"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if strings.TrimSpace(h.Addr) == "" {
		h.Addr = ":3000"
	}

	if h.WriteTimeout < 0 {
		h.WriteTimeout = 0
	}

	if h.SessionCookieMaxAge < 0 {
		h.SessionCookieMaxAge = 0
	}

	h.CookieDomain = strings.ToLower(strings.Trim(strings.TrimSpace(h.CookieDomain), "."))
	if h.CookieDomain != "" && isPublicSuffix(h.CookieDomain) {
		// Browsers reject cookies scoped to a public suffix; fall back to host-only.
		h.CookieDomain = ""
	}
}

func isPublicSuffix(domain string) bool {
	suffix, _ := publicsuffix.PublicSuffix(domain)
	return suffix == domain
}
