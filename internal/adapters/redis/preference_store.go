// Package redis provides Redis-backed adapters.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finnabbear/finnabear-web/internal/domain/ui"
	"github.com/finnabbear/finnabear-web/internal/ports"
)

// DefaultKeyPrefix namespaces preference keys.
const DefaultKeyPrefix = "prefs:"

// PreferenceStore mirrors workspace theme and sidebar preferences into Redis.
// Each Save refreshes the key TTL so active browsers keep their preferences.
type PreferenceStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// PreferenceStoreOptions configures a PreferenceStore.
type PreferenceStoreOptions struct {
	Prefix string
	// TTL of zero stores keys without expiry.
	TTL time.Duration
}

var _ ports.PreferenceStore = (*PreferenceStore)(nil)

// NewPreferenceStore creates a Redis preference store.
func NewPreferenceStore(client redis.UniversalClient, opts PreferenceStoreOptions) *PreferenceStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &PreferenceStore{client: client, prefix: prefix, ttl: opts.TTL}
}

func (s *PreferenceStore) key(id string) string { return s.prefix + id }

// Load returns ports.ErrPreferencesNotFound when nothing is stored.
func (s *PreferenceStore) Load(ctx context.Context, workspaceID string) (ui.Preferences, error) {
	if workspaceID == "" {
		return ui.Preferences{}, ports.ErrPreferencesNotFound
	}

	data, err := s.client.Get(ctx, s.key(workspaceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ui.Preferences{}, ports.ErrPreferencesNotFound
		}
		return ui.Preferences{}, fmt.Errorf("redis get: %w", err)
	}

	var prefs ui.Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return ui.Preferences{}, fmt.Errorf("unmarshal preferences: %w", err)
	}
	if _, err := ui.ParsePreference(string(prefs.Theme)); err != nil {
		prefs.Theme = ui.PreferenceSystem
	}
	return prefs, nil
}

// Save writes prefs, replacing what was stored.
func (s *PreferenceStore) Save(ctx context.Context, workspaceID string, prefs ui.Preferences) error {
	if workspaceID == "" {
		return errors.New("workspace ID cannot be empty")
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	return s.client.Set(ctx, s.key(workspaceID), data, s.ttl).Err()
}

// Delete removes stored preferences; a missing key is not an error.
func (s *PreferenceStore) Delete(ctx context.Context, workspaceID string) error {
	if workspaceID == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(workspaceID)).Err()
}
