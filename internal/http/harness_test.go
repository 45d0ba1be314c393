package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	mockauth "github.com/finnabbear/finnabear-web/internal/mocks/auth"
	mockui "github.com/finnabbear/finnabear-web/internal/mocks/ui"
	"github.com/finnabbear/finnabear-web/internal/service"
)

type harnessOptions struct {
	CSRF  bool
	Ready ReadinessCheck
}

type harness struct {
	t       *testing.T
	srv     *httptest.Server
	client  *http.Client
	backend *mockauth.StubBackend
	prefs   *mockui.MemoryPreferenceStore
	ws      *service.Workspaces
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	backend := mockauth.NewStubBackend()
	prefs := mockui.NewMemoryPreferenceStore()
	logger := discardLogger()
	actions := service.NewAuthActions(service.AuthActionsOptions{Backend: backend, Logger: logger})
	workspaces := service.NewWorkspaces(service.WorkspacesOptions{
		Config: service.WorkspacesConfig{Capacity: 16, IdleTTL: time.Hour},
		Deps:   service.WorkspaceDeps{Actions: actions, Preferences: prefs},
		Logger: logger,
	})

	handler, err := NewRouter(RouterServices{
		Actions:    actions,
		Workspaces: workspaces,
		Ready:      opts.Ready,
		Config:     RouterConfig{CSRFEnabled: opts.CSRF, DemoDelay: -1},
		Logger:     logger,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &harness{t: t, srv: srv, client: client, backend: backend, prefs: prefs, ws: workspaces}
}

type call struct {
	method string
	path   string
	form   url.Values
	json   string
	htmx   bool
	accept string
	header map[string]string
}

type result struct {
	status int
	header http.Header
	body   string
}

func (h *harness) do(c call) result {
	h.t.Helper()

	var body io.Reader
	contentType := ""
	switch {
	case c.json != "":
		body = strings.NewReader(c.json)
		contentType = "application/json"
	case c.form != nil:
		body = strings.NewReader(c.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}
	method := c.method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(h.t.Context(), method, h.srv.URL+c.path, body)
	require.NoError(h.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.htmx {
		req.Header.Set("Hx-Request", "true")
	}
	if c.accept != "" {
		req.Header.Set("Accept", c.accept)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return result{status: resp.StatusCode, header: resp.Header, body: string(data)}
}

func (h *harness) cookie(name string) (string, bool) {
	u, _ := url.Parse(h.srv.URL)
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// dropCookie removes a cookie from the browser jar, as an expiry or a user would.
func (h *harness) dropCookie(name string) {
	u, _ := url.Parse(h.srv.URL)
	h.client.Jar.SetCookies(u, []*http.Cookie{{Name: name, Path: "/", MaxAge: -1}})
}

func (h *harness) state() service.Snapshot {
	h.t.Helper()
	res := h.do(call{path: "/ui/state"})
	require.Equal(h.t, http.StatusOK, res.status)
	var snap service.Snapshot
	require.NoError(h.t, json.Unmarshal([]byte(res.body), &snap))
	return snap
}

func (h *harness) login() {
	h.t.Helper()
	res := h.do(call{
		method: http.MethodPost,
		path:   "/actions/login",
		form:   url.Values{"identifier": {"stub"}, "password": {"pw"}},
		htmx:   true,
	})
	require.Equal(h.t, http.StatusOK, res.status)
}

func triggers(t *testing.T, res result) map[string]any {
	t.Helper()
	raw := res.header.Get("Hx-Trigger")
	if raw == "" {
		return map[string]any{}
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func toastMessage(t *testing.T, res result) string {
	t.Helper()
	toast, ok := triggers(t, res)["toast"].(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := toast["message"].(string)
	return msg
}
