package service

import (
	"context"
	"strings"
	"sync"

	domainauth "github.com/finnabbear/finnabear-web/internal/domain/auth"
	"github.com/finnabbear/finnabear-web/internal/ports"
)

// AuthSession is the authentication container of one workspace.
// It starts loading and unauthenticated until the first Hydrate.
type AuthSession struct {
	actions *AuthActions

	mu            sync.Mutex
	user          *domainauth.UserProfile
	authenticated bool
	hydrated      bool
	inFlight      int
}

// NewAuthSession creates an unhydrated session backed by actions.
func NewAuthSession(actions *AuthActions) *AuthSession {
	return &AuthSession{actions: actions}
}

// Login runs the login action and, on success, marks the session authenticated.
// On failure the in-memory state is left untouched.
func (s *AuthSession) Login(ctx context.Context, jar ports.CookieJar, in ports.LoginInput) domainauth.ActionResult {
	done := s.begin()
	defer done()

	res := s.actions.Login(ctx, jar, in)
	if res.Success {
		s.authenticate(res.User)
	}
	return res
}

// Register runs the register action with the same semantics as Login.
func (s *AuthSession) Register(ctx context.Context, jar ports.CookieJar, in ports.RegisterInput) domainauth.ActionResult {
	done := s.begin()
	defer done()

	res := s.actions.Register(ctx, jar, in)
	if res.Success {
		s.authenticate(res.User)
	}
	return res
}

// Logout clears the cookies and the in-memory session. It always succeeds.
func (s *AuthSession) Logout(ctx context.Context, jar ports.CookieJar) domainauth.ActionResult {
	res := s.actions.Logout(ctx, jar)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.hydrated = true
	return res
}

// Hydrate restores the session from the request cookies.
// Both the token and a well-formed profile must be present; anything else is unauthenticated.
func (s *AuthSession) Hydrate(jar ports.CookieJar) domainauth.State {
	sess := ReadSession(jar)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = true
	if sess.Valid() {
		s.user = sess.User
		s.authenticated = true
	} else {
		s.user = nil
		s.authenticated = false
	}
	return s.snapshotLocked()
}

// Snapshot returns the current state.
func (s *AuthSession) Snapshot() domainauth.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *AuthSession) snapshotLocked() domainauth.State {
	return domainauth.State{
		User:            s.user,
		IsAuthenticated: s.authenticated,
		IsLoading:       !s.hydrated || s.inFlight > 0,
	}
}

func (s *AuthSession) begin() func() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}
}

func (s *AuthSession) authenticate(user *domainauth.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.authenticated = user != nil
	s.hydrated = true
}

// ReadSession reconstructs the session from the token and profile cookies.
// A missing or malformed half yields a Session that is not Valid.
func ReadSession(jar ports.CookieJar) domainauth.Session {
	var sess domainauth.Session
	if token, ok := jar.Get(domainauth.CookieAccessToken); ok {
		sess.Token = strings.TrimSpace(token)
	}
	raw, ok := jar.Get(domainauth.CookieUserData)
	if !ok || raw == "" {
		return sess
	}
	user, err := domainauth.ParseUserProfile([]byte(DecodeCookieValue(raw)))
	if err == nil {
		sess.User = user
	}
	return sess
}
