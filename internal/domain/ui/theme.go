package ui

import (
	"fmt"
	"strings"
	"sync"
)

// Preference is the user's theme choice.
type Preference string

const (
	PreferenceLight  Preference = "light"
	PreferenceDark   Preference = "dark"
	PreferenceSystem Preference = "system"
)

// Mode is the visual mode actually applied to the document root.
// There is no third mode; system always resolves to one of these.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ParsePreference validates a preference string.
func ParsePreference(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case PreferenceLight, PreferenceDark, PreferenceSystem:
		return p, nil
	default:
		return "", fmt.Errorf("invalid theme %q (valid options: light, dark, system)", s)
	}
}

// ResolveMode applies the OS color-scheme signal to a preference.
func ResolveMode(p Preference, systemDark bool) Mode {
	switch p {
	case PreferenceDark:
		return ModeDark
	case PreferenceLight:
		return ModeLight
	default:
		if systemDark {
			return ModeDark
		}
		return ModeLight
	}
}

// Theme holds the theme preference of a workspace and the last OS
// color-scheme signal the browser reported.
type Theme struct {
	mu         sync.Mutex
	pref       Preference
	systemDark bool
}

// NewTheme starts at the system preference.
func NewTheme() *Theme { return &Theme{pref: PreferenceSystem} }

// Set replaces the preference.
func (t *Theme) Set(p Preference) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pref = p
}

// Preference returns the stored preference.
func (t *Theme) Preference() Preference {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pref
}

// ObserveSystem records the browser's OS color-scheme signal.
func (t *Theme) ObserveSystem(dark bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.systemDark = dark
}

// SystemDark returns the last observed OS signal; false until one arrives.
func (t *Theme) SystemDark() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.systemDark
}

// Resolve returns the mode to apply given the live OS signal.
func (t *Theme) Resolve(systemDark bool) Mode {
	return ResolveMode(t.Preference(), systemDark)
}

// ThemeState is the snapshot form used in JSON and templates.
type ThemeState struct {
	Preference Preference `json:"preference"`
	Applied    Mode       `json:"applied"`
}

// Snapshot resolves the preference against the OS signal.
func (t *Theme) Snapshot(systemDark bool) ThemeState {
	p := t.Preference()
	return ThemeState{Preference: p, Applied: ResolveMode(p, systemDark)}
}
