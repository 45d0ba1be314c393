package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	domainauth "github.com/finnabbear/finnabear-web/internal/domain/auth"
	"github.com/finnabbear/finnabear-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.BackendAPI = (*StubBackend)(nil)
	_ ports.CookieJar  = (*MemoryCookieJar)(nil)
)

// StubBackend answers every call with a deterministic session unless a Func is set.
type StubBackend struct {
	LoginFunc    func(ctx context.Context, in ports.LoginInput) (domainauth.Session, error)
	RegisterFunc func(ctx context.Context, in ports.RegisterInput) (domainauth.Session, error)
	MeFunc       func(ctx context.Context, token string) (json.RawMessage, error)

	// Token and User are returned by default.
	Token string
	User  domainauth.UserProfile

	mu    sync.Mutex
	calls int
}

// NewStubBackend creates a StubBackend with sensible defaults.
func NewStubBackend() *StubBackend {
	return &StubBackend{
		Token: "stub-token",
		User:  domainauth.UserProfile{ID: "1", Username: "stub", Email: "stub@example.com"},
	}
}

// Calls reports how many backend calls were made.
func (s *StubBackend) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *StubBackend) record() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *StubBackend) session() domainauth.Session {
	u := s.User
	return domainauth.Session{Token: s.Token, User: &u}
}

func (s *StubBackend) Login(ctx context.Context, in ports.LoginInput) (domainauth.Session, error) {
	s.record()
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, in)
	}
	return s.session(), nil
}

func (s *StubBackend) Register(ctx context.Context, in ports.RegisterInput) (domainauth.Session, error) {
	s.record()
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, in)
	}
	return s.session(), nil
}

func (s *StubBackend) Me(ctx context.Context, token string) (json.RawMessage, error) {
	s.record()
	if s.MeFunc != nil {
		return s.MeFunc(ctx, token)
	}
	return json.Marshal(s.User)
}

// MemoryCookieJar records outgoing cookies and serves incoming ones from a map.
// A Set with MaxAge < 0 removes the cookie, mirroring what a browser would do.
type MemoryCookieJar struct {
	mu      sync.Mutex
	values  map[string]string
	written []*http.Cookie
}

// NewMemoryCookieJar creates a jar preloaded with request cookies.
func NewMemoryCookieJar(initial map[string]string) *MemoryCookieJar {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryCookieJar{values: values}
}

func (j *MemoryCookieJar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	v, ok := j.values[name]
	return v, ok
}

func (j *MemoryCookieJar) Set(c *http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	cp := *c
	j.written = append(j.written, &cp)
	if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
		delete(j.values, c.Name)
		return
	}
	j.values[c.Name] = c.Value
}

// Written returns every cookie passed to Set, in order.
func (j *MemoryCookieJar) Written() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*http.Cookie, len(j.written))
	copy(out, j.written)
	return out
}

// Last returns the most recent cookie written under name.
func (j *MemoryCookieJar) Last(name string) (*http.Cookie, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.written) - 1; i >= 0; i-- {
		if j.written[i].Name == name {
			return j.written[i], true
		}
	}
	return nil, false
}
