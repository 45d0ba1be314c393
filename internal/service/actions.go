package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/finnabbear/finnabear-web/internal/domain/auth"
	apperrors "github.com/finnabbear/finnabear-web/internal/errors"
	"github.com/finnabbear/finnabear-web/internal/ports"
)

// Fallback messages used when the backend does not supply one.
const (
	MsgLoginFailed    = "Login failed"
	MsgRegisterFailed = "Registration failed"
	MsgMeFailed       = "Failed to fetch user data"
	MsgNoAccessToken  = "No access token found"
)

// CookiePolicy holds the attributes shared by every session cookie.
// Token and profile cookies always get the same expiry.
type CookiePolicy struct {
	Secure bool
	Domain string
	// MaxAge in seconds; zero keeps cookies for the browser session.
	MaxAge int
}

// AuthActionsOptions groups dependencies for AuthActions.
type AuthActionsOptions struct {
	Backend ports.BackendAPI // Required
	Cookies CookiePolicy
	Logger  *slog.Logger // Optional
}

// AuthActions are the server-side login, register, logout and profile actions.
// They translate backend responses into session cookies and never return errors:
// every failure is an ActionResult with Success=false.
type AuthActions struct {
	backend ports.BackendAPI
	cookies CookiePolicy
	logger  *slog.Logger
}

// NewAuthActions constructs AuthActions. It panics when Backend is nil.
func NewAuthActions(opts AuthActionsOptions) *AuthActions {
	if opts.Backend == nil {
		panic("service: AuthActions requires a backend")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthActions{backend: opts.Backend, cookies: opts.Cookies, logger: logger}
}

// Login authenticates against the backend and writes the session cookies on success.
func (a *AuthActions) Login(ctx context.Context, jar ports.CookieJar, in ports.LoginInput) domainauth.ActionResult {
	sess, err := a.backend.Login(ctx, in)
	if err != nil {
		return a.fail(ctx, "login", err, MsgLoginFailed)
	}
	return a.establish(ctx, jar, "login", sess, MsgLoginFailed)
}

// Register creates an account and writes the session cookies on success.
func (a *AuthActions) Register(ctx context.Context, jar ports.CookieJar, in ports.RegisterInput) domainauth.ActionResult {
	sess, err := a.backend.Register(ctx, in)
	if err != nil {
		return a.fail(ctx, "register", err, MsgRegisterFailed)
	}
	return a.establish(ctx, jar, "register", sess, MsgRegisterFailed)
}

// Logout expires every session cookie. The backend is not contacted.
func (a *AuthActions) Logout(_ context.Context, jar ports.CookieJar) domainauth.ActionResult {
	for _, name := range domainauth.SessionCookieNames() {
		jar.Set(a.expired(name))
	}
	return domainauth.ActionResult{Success: true}
}

// GetMe re-validates the token cookie against GET /me and returns the backend payload.
// The readable profile cookie is never trusted here.
func (a *AuthActions) GetMe(ctx context.Context, jar ports.CookieJar) domainauth.ActionResult {
	token, ok := jar.Get(domainauth.CookieAccessToken)
	if !ok || strings.TrimSpace(token) == "" {
		return domainauth.Failed(MsgNoAccessToken)
	}

	raw, err := a.backend.Me(ctx, token)
	if err != nil {
		return a.fail(ctx, "get profile", err, MsgMeFailed)
	}
	return domainauth.ActionResult{Success: true, Data: raw}
}

func (a *AuthActions) establish(
	ctx context.Context,
	jar ports.CookieJar,
	op string,
	sess domainauth.Session,
	fallback string,
) domainauth.ActionResult {
	if !sess.Valid() {
		return a.fail(ctx, op, apperrors.Malformed("Unexpected response from server"), fallback)
	}
	profile, err := json.Marshal(sess.User)
	if err != nil {
		return a.fail(ctx, op, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode profile"), fallback)
	}

	jar.Set(a.cookie(domainauth.CookieAccessToken, sess.Token, true))
	jar.Set(a.cookie(domainauth.CookieUserData, EncodeCookieValue(string(profile)), false))

	a.logger.InfoContext(ctx, op+" succeeded", "user_id", sess.User.ID)
	return domainauth.ActionResult{Success: true, User: sess.User}
}

func (a *AuthActions) fail(ctx context.Context, op string, err error, fallback string) domainauth.ActionResult {
	msg := fallback
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeBackend, apperrors.ErrCodeTransport, apperrors.ErrCodeMalformed,
		apperrors.ErrCodeUnauthenticated:
		msg = apperrors.UserMessage(err, fallback)
	}
	a.logger.WarnContext(ctx, op+" failed", "code", apperrors.GetCode(err), "error", err)
	return domainauth.Failed(msg)
}

func (a *AuthActions) cookie(name, value string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   a.cookies.Domain,
		MaxAge:   a.cookies.MaxAge,
		HttpOnly: httpOnly,
		Secure:   a.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (a *AuthActions) expired(name string) *http.Cookie {
	c := a.cookie(name, "", name != domainauth.CookieUserData)
	c.MaxAge = -1
	return c
}

// EncodeCookieValue percent-encodes JSON so it survives as a cookie value.
func EncodeCookieValue(s string) string { return url.PathEscape(s) }

// DecodeCookieValue reverses EncodeCookieValue; raw values are returned as-is.
func DecodeCookieValue(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}
