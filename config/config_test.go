package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseBackendEnv(t *testing.T) {
	t.Setenv("BACKEND_API_URL", "https://api.example.com/api/v1/")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("BACKEND_TOKEN_PATH", "payload.token")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	expected := BackendConfig{
		URL:         "https://api.example.com/api/v1",
		Timeout:     3 * time.Second,
		TokenPath:   "payload.token",
		UserPath:    "data.user || user",
		ProfilePath: "@",
		MessagePath: "message || error.message",
	}

	if !reflect.DeepEqual(cfg.Backend, expected) {
		t.Fatalf("unexpected backend configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Backend)
	}
}

func TestBackendConfig_URLFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		nextURL  string
		expected string
	}{
		{name: "explicit url wins", url: "https://a.example.com", nextURL: "https://b.example.com", expected: "https://a.example.com"},
		{name: "next public url fallback", url: "", nextURL: "https://b.example.com/", expected: "https://b.example.com"},
		{name: "default", url: "", nextURL: "", expected: DefaultBackendURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NEXT_PUBLIC_API_URL", tt.nextURL)
			b := BackendConfig{URL: tt.url}
			b.Sanitize()
			if b.URL != tt.expected {
				t.Errorf("expected URL %q, got %q", tt.expected, b.URL)
			}
		})
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	tests := []struct {
		name       string
		dev        bool
		nodeEnv    string
		expectDev  bool
		wantSecure bool
	}{
		{name: "production", nodeEnv: "production", expectDev: false, wantSecure: true},
		{name: "node env unset", nodeEnv: "", expectDev: false, wantSecure: false},
		{name: "node env test", nodeEnv: "test", expectDev: false, wantSecure: false},
		{name: "node env development", nodeEnv: "development", expectDev: true, wantSecure: false},
		{name: "node env dev shorthand", nodeEnv: "DEV", expectDev: true, wantSecure: false},
		{name: "explicit dev flag", dev: true, nodeEnv: "production", expectDev: true, wantSecure: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NODE_ENV", tt.nodeEnv)
			cfg := AppConfig{IsDev: tt.dev}
			cfg.Sanitize()
			if cfg.IsDev != tt.expectDev {
				t.Errorf("expected IsDev=%v, got %v", tt.expectDev, cfg.IsDev)
			}
			if cfg.SecureCookies() != tt.wantSecure {
				t.Errorf("expected SecureCookies=%v, got %v", tt.wantSecure, cfg.SecureCookies())
			}
		})
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name         string
		in           HTTPConfig
		expectDomain string
		expectMaxAge int
		expectAddr   string
	}{
		{name: "keeps registrable domain", in: HTTPConfig{Addr: ":9000", CookieDomain: ".App.Example.com"}, expectDomain: "app.example.com", expectAddr: ":9000"},
		{name: "drops public suffix", in: HTTPConfig{CookieDomain: "co.uk"}, expectDomain: "", expectAddr: ":3000"},
		{name: "clamps negative max age", in: HTTPConfig{Addr: ":3000", SessionCookieMaxAge: -5}, expectMaxAge: 0, expectAddr: ":3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.in
			h.Sanitize()
			if h.CookieDomain != tt.expectDomain {
				t.Errorf("expected cookie domain %q, got %q", tt.expectDomain, h.CookieDomain)
			}
			if h.SessionCookieMaxAge != tt.expectMaxAge {
				t.Errorf("expected max age %d, got %d", tt.expectMaxAge, h.SessionCookieMaxAge)
			}
			if h.Addr != tt.expectAddr {
				t.Errorf("expected addr %q, got %q", tt.expectAddr, h.Addr)
			}
		})
	}
}

func TestAppConfig_SanitizeLogLevel(t *testing.T) {
	cfg := AppConfig{LogLevel: " WARN "}
	cfg.Sanitize()
	if cfg.LogLevel != "warn" {
		t.Errorf("expected warn, got %q", cfg.LogLevel)
	}

	cfg = AppConfig{LogLevel: "verbose"}
	cfg.Sanitize()
	if cfg.LogLevel != "info" {
		t.Errorf("expected fallback to info, got %q", cfg.LogLevel)
	}
}

func TestRedisConfig_Enabled(t *testing.T) {
	var r RedisConfig
	r.Sanitize()
	if r.Enabled() {
		t.Error("expected redis disabled without URI")
	}
	if r.KeyPrefix != "prefs:" {
		t.Errorf("expected default prefix, got %q", r.KeyPrefix)
	}

	r = RedisConfig{URI: " localhost:6379 "}
	r.Sanitize()
	if !r.Enabled() {
		t.Error("expected redis enabled with URI")
	}

	r = RedisConfig{UseSentinel: true, SentinelNodes: []string{"localhost:26379"}}
	if !r.Enabled() {
		t.Error("expected redis enabled with sentinel nodes")
	}
}

func TestWorkspaceConfig_Sanitize(t *testing.T) {
	w := WorkspaceConfig{Capacity: -1, IdleTTL: 0, SweepInterval: -time.Second}
	w.Sanitize()
	if w.Capacity != 10000 || w.IdleTTL != 12*time.Hour || w.SweepInterval != 5*time.Minute {
		t.Errorf("unexpected defaults: %+v", w)
	}
	if w.CookieName != "ui_session" {
		t.Errorf("expected default cookie name, got %q", w.CookieName)
	}
}

func TestMetricsConfig_Sanitize(t *testing.T) {
	m := MetricsConfig{Enabled: true, StatsdAddress: "  ", Prefix: ".."}
	m.Sanitize()
	if m.IsEnabled() {
		t.Error("expected metrics disabled without address")
	}
	if m.Prefix != "finnabear_web" {
		t.Errorf("expected default prefix, got %q", m.Prefix)
	}

	m = MetricsConfig{Enabled: true, StatsdAddress: "127.0.0.1:8125", Prefix: "web."}
	m.Sanitize()
	if !m.IsEnabled() || m.Prefix != "web" {
		t.Errorf("unexpected metrics config: %+v", m)
	}
}
