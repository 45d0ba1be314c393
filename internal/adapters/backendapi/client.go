// Package backendapi talks to the upstream authentication API.
package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/oauth2"

	domainauth "github.com/finnabbear/finnabear-web/internal/domain/auth"
	apperrors "github.com/finnabbear/finnabear-web/internal/errors"
	"github.com/finnabbear/finnabear-web/internal/ports"
)

// Expression defaults; the backend wraps payloads as {success, message, data: {...}}
// but older deployments returned token and user at the top level.
const (
	DefaultTokenPath   = "data.token || token"
	DefaultUserPath    = "data.user || user"
	DefaultProfilePath = "@"
	DefaultMessagePath = "message || error.message"
)

// unexpectedResponse is shown when a 2xx body lacks the fields we need.
const unexpectedResponse = "Unexpected response from server"

const maxBodyBytes = 1 << 20

// Config captures the backend client settings.
type Config struct {
	BaseURL string
	// Timeout of zero leaves calls bounded only by the caller's context.
	Timeout     time.Duration
	TokenPath   string
	UserPath    string
	ProfilePath string
	MessagePath string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client implements ports.BackendAPI over HTTP/JSON.
type Client struct {
	baseURL     string
	tokenPath   string
	userPath    string
	profilePath string
	messagePath string
	http        *http.Client
	logger      *slog.Logger
}

var _ ports.BackendAPI = (*Client)(nil)

// NewClient validates the expressions and builds a client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend base url is required")
	}

	c := &Client{
		baseURL:     base,
		tokenPath:   fallbackString(cfg.TokenPath, DefaultTokenPath),
		userPath:    fallbackString(cfg.UserPath, DefaultUserPath),
		profilePath: fallbackString(cfg.ProfilePath, DefaultProfilePath),
		messagePath: fallbackString(cfg.MessagePath, DefaultMessagePath),
		http:        cfg.HTTPClient,
		logger:      cfg.Logger,
	}
	for _, expr := range []string{c.tokenPath, c.userPath, c.profilePath, c.messagePath} {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("invalid jmespath expression %q: %w", expr, err)
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: max(cfg.Timeout, 0)}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

func fallbackString(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// Login posts credentials to /auth/login.
func (c *Client) Login(ctx context.Context, in ports.LoginInput) (domainauth.Session, error) {
	return c.authenticate(ctx, "/auth/login", in)
}

// Register posts the registration form to /auth/register.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (domainauth.Session, error) {
	return c.authenticate(ctx, "/auth/register", in)
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (domainauth.Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	doc, err := c.do(c.http, req)
	if err != nil {
		return domainauth.Session{}, err
	}
	return c.sessionFrom(doc)
}

// Me fetches the profile for token from GET /me.
func (c *Client) Me(ctx context.Context, token string) (json.RawMessage, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.Unauthenticated("No access token found")
	}
	if !httpguts.ValidHeaderFieldValue("Bearer " + token) {
		return nil, apperrors.Unauthenticated("access token is not a valid header value")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create request")
	}
	req.Header.Set("Accept", "application/json")

	doc, err := c.do(c.bearerClient(token), req)
	if err != nil {
		return nil, err
	}

	profile, err := jmespath.Search(c.profilePath, doc)
	if err != nil || profile == nil {
		return nil, apperrors.Malformed(unexpectedResponse)
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return nil, apperrors.Malformed(unexpectedResponse)
	}
	return raw, nil
}

// bearerClient shares the base client's transport and timeout but injects the bearer header.
func (c *Client) bearerClient(token string) *http.Client {
	return &http.Client{
		Timeout: c.http.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.http.Transport,
		},
	}
}

// do executes req and returns the decoded JSON document of a 2xx response.
// Non-2xx responses become backend errors carrying the extracted message.
func (c *Client) do(hc *http.Client, req *http.Request) (any, error) {
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.WarnContext(req.Context(), "backend request failed",
			"method", req.Method, "path", req.URL.Path, "error", err)
		return nil, apperrors.Transport(err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(req.Context(), "close backend response body", "error", cerr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Transport(err)
	}

	c.logger.DebugContext(req.Context(), "backend response",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

	doc, decodeErr := decode(data)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Backend(resp.StatusCode, c.message(doc, decodeErr))
	}
	if decodeErr != nil {
		return nil, apperrors.Malformed(unexpectedResponse)
	}
	return doc, nil
}

// message extracts the backend's error message; an unparseable body yields "".
func (c *Client) message(doc any, decodeErr error) string {
	if decodeErr != nil {
		return ""
	}
	v, err := jmespath.Search(c.messagePath, doc)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func (c *Client) sessionFrom(doc any) (domainauth.Session, error) {
	tokenVal, err := jmespath.Search(c.tokenPath, doc)
	if err != nil {
		return domainauth.Session{}, apperrors.Malformed(unexpectedResponse)
	}
	token, _ := tokenVal.(string)
	if strings.TrimSpace(token) == "" {
		return domainauth.Session{}, apperrors.Malformed(unexpectedResponse)
	}

	userVal, err := jmespath.Search(c.userPath, doc)
	if err != nil {
		return domainauth.Session{}, apperrors.Malformed(unexpectedResponse)
	}
	if _, ok := userVal.(map[string]any); !ok {
		return domainauth.Session{}, apperrors.Malformed(unexpectedResponse)
	}
	raw, err := json.Marshal(userVal)
	if err != nil {
		return domainauth.Session{}, apperrors.Malformed(unexpectedResponse)
	}
	user, err := domainauth.ParseUserProfile(raw)
	if err != nil {
		return domainauth.Session{}, apperrors.Malformed(unexpectedResponse)
	}

	return domainauth.Session{Token: token, User: user}, nil
}

func decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty body")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
