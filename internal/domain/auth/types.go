package auth

// Package auth contains domain-level types for the cookie-backed session.
// It is pure and free of framework/adapter concerns.

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Cookie names shared by the action layer and hydration.
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
	CookieUserData     = "userData"
)

// SessionCookieNames lists every session cookie, in the order they are cleared on logout.
func SessionCookieNames() []string {
	return []string{CookieAccessToken, CookieRefreshToken, CookieUserData}
}

// UserProfile is the opaque profile payload returned by the backend.
// Only id, username and email are surfaced; any other fields are carried
// through untouched so the readable cookie mirrors what the backend sent.
type UserProfile struct {
	ID       string
	Username string
	Email    string
	Extra    map[string]any
}

var errProfileNotObject = errors.New("user profile must be a JSON object")

// UnmarshalJSON accepts numeric or string ids and keeps unknown fields in Extra.
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	if fields == nil {
		return errProfileNotObject
	}

	*u = UserProfile{}
	u.ID = scalarString(fields["id"])
	u.Username = scalarString(fields["username"])
	u.Email = scalarString(fields["email"])
	delete(fields, "id")
	delete(fields, "username")
	delete(fields, "email")
	if len(fields) > 0 {
		u.Extra = fields
	}
	return nil
}

// MarshalJSON writes id, username, email and any extra fields as one object.
func (u UserProfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+3)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["id"] = u.ID
	out["username"] = u.Username
	out["email"] = u.Email
	return json.Marshal(out)
}

// ParseUserProfile decodes a profile from raw JSON.
func ParseUserProfile(raw []byte) (*UserProfile, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errProfileNotObject
	}
	var u UserProfile
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Session pairs the opaque bearer token with the profile it was issued for.
type Session struct {
	Token string
	User  *UserProfile
}

// Valid reports whether both halves of the session are present.
// A profile without a token (or the reverse) is never a usable session.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != "" && s.User != nil
}

// ActionResult is the normalized outcome of every auth action.
// Failures never escape as errors; they surface here with a user-facing message.
type ActionResult struct {
	Success bool            `json:"success"`
	User    *UserProfile    `json:"user,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Failed builds an unsuccessful result.
func Failed(message string) ActionResult {
	return ActionResult{Success: false, Error: message}
}

// State is an immutable snapshot of the authentication container.
type State struct {
	User            *UserProfile `json:"user"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsLoading       bool         `json:"is_loading"`
}
