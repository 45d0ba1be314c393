package ui

// Preferences is the subset of workspace state that survives a process restart.
type Preferences struct {
	Theme       Preference `json:"theme"`
	SidebarOpen bool       `json:"sidebar_open"`
}

// DefaultPreferences matches a freshly created workspace.
func DefaultPreferences() Preferences {
	return Preferences{Theme: PreferenceSystem}
}
