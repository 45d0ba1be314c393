package config

import (
	"strings"
	"time"
)

// RedisConfig contains Redis configuration for the preference mirror.
// Leaving URI empty disables Redis entirely; preferences then live only in process memory.
type RedisConfig struct {
	URI                string        `env:"URI"                  envDefault:""`
	Password           string        `env:"PASSWORD"             envDefault:""`
	DB                 int           `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string      `env:"SENTINEL_NODES"       envDefault:""`
	SentinelMasterName string        `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string        `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool          `env:"USE_SENTINEL"         envDefault:"false"`
	KeyPrefix          string        `env:"KEY_PREFIX"           envDefault:"prefs:"`
	PreferenceTTL      time.Duration `env:"PREFERENCE_TTL"       envDefault:"720h"`
}

// Sanitize normalises Redis settings.
func (r *RedisConfig) Sanitize() {
	r.URI = strings.TrimSpace(r.URI)
	if r.KeyPrefix == "" {
		r.KeyPrefix = "prefs:"
	}
	if r.PreferenceTTL < 0 {
		r.PreferenceTTL = 0
	}
}

// Enabled reports whether a Redis connection should be attempted.
func (r *RedisConfig) Enabled() bool {
	return r.URI != "" || (r.UseSentinel && len(r.SentinelNodes) > 0)
}
