package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	apperrors "github.com/finnabbear/finnabear-web/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "true")
	assert.True(t, IsHTMX(r))
	assert.False(t, WantsJSON(r))

	r2 := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.False(t, IsHTMX(r2))
	assert.False(t, WantsJSON(r2))

	r2.Header.Set("Accept", "application/json")
	assert.True(t, WantsJSON(r2))

	r3 := httptest.NewRequest(http.MethodPost, "/x", nil)
	r3.Header.Set("Content-Type", "application/json; charset=utf-8")
	assert.True(t, WantsJSON(r3))
}

func TestHTMX_TriggersMerge(t *testing.T) {
	w := httptest.NewRecorder()
	SetHXTrigger(w, "auth-changed", nil)
	Toast(w, ToastError, "nope")
	SetHXTrigger(w, "theme-applied", map[string]string{"mode": "dark"})

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("Hx-Trigger")), &got))
	assert.Equal(t, true, got["auth-changed"])
	assert.Equal(t, map[string]any{"level": "error", "message": "nope"}, got["toast"])
	assert.Equal(t, map[string]any{"mode": "dark"}, got["theme-applied"])
}

func TestHTMX_TriggerOverwritesCorruptHeader(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set("Hx-Trigger", "plain-event")
	SetHXTrigger(w, "toast", nil)
	assert.JSONEq(t, `{"toast":true}`, w.Header().Get("Hx-Trigger"))
}

func TestHTMX_RedirectHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SetHXRedirect(w, "/login")
	SetHXReplaceURL(w, "/")
	assert.Equal(t, "/login", w.Header().Get("Hx-Redirect"))
	assert.Equal(t, "/", w.Header().Get("Hx-Replace-Url"))
}

func TestNotify_FlushesNewest(t *testing.T) {
	ctx, q := withNotices(t.Context())
	Notify(ctx, ToastInfo, "first")
	Notify(ctx, ToastSuccess, "second")

	w := httptest.NewRecorder()
	q.flush(w)
	assert.JSONEq(t, `{"toast":{"level":"success","message":"second"}}`, w.Header().Get("Hx-Trigger"))

	// Outside a collecting handler Notify is a no-op.
	Notify(t.Context(), ToastInfo, "dropped")
}

func TestClientHints(t *testing.T) {
	tests := []struct {
		value string
		dark  bool
	}{
		{value: "dark", dark: true},
		{value: `"dark"`, dark: true},
		{value: " Dark ", dark: true},
		{value: "light", dark: false},
		{value: "", dark: false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.value != "" {
			r.Header.Set(HeaderPrefersColorScheme, tt.value)
		}
		assert.Equal(t, tt.dark, SystemPrefersDark(r), "value %q", tt.value)
	}

	w := httptest.NewRecorder()
	AdvertiseColorSchemeHint(w)
	assert.Equal(t, HeaderPrefersColorScheme, w.Header().Get("Accept-CH"))
	assert.Equal(t, HeaderPrefersColorScheme, w.Header().Get("Critical-CH"))
	assert.Contains(t, w.Header().Values("Vary"), HeaderPrefersColorScheme)
}

func TestRequestCookieJar_PendingOverlay(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "accessToken", Value: "old"})
	w := httptest.NewRecorder()
	jar := NewRequestCookieJar(w, r)

	v, ok := jar.Get("accessToken")
	require.True(t, ok)
	assert.Equal(t, "old", v)

	jar.Set(&http.Cookie{Name: "accessToken", Value: "new", Path: "/"})
	v, _ = jar.Get("accessToken")
	assert.Equal(t, "new", v)

	jar.Set(&http.Cookie{Name: "accessToken", Path: "/", MaxAge: -1})
	_, ok = jar.Get("accessToken")
	assert.False(t, ok)

	_, ok = jar.Get("missing")
	assert.False(t, ok)
	assert.Len(t, w.Result().Cookies(), 2)
}

func TestWriteAppError_Statuses(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAppError(w, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal","message":"internal server error"}`, w.Body.String())

	w = httptest.NewRecorder()
	WriteAppError(w, apperrors.ValidationField("kind", "kind must be info, confirm or custom"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation","message":"kind must be info, confirm or custom","field":"kind"}`, w.Body.String())

	w = httptest.NewRecorder()
	WriteAppError(w, apperrors.Backend(http.StatusServiceUnavailable, "backend down"))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "field")
}

func TestObserveSystemDark(t *testing.T) {
	registry := newTestWorkspaces(t)
	ws, _ := registry.Resolve(t.Context(), "")

	assert.False(t, ObserveSystemDark(httptest.NewRequest(http.MethodGet, "/", nil), ws, false))

	form := httptest.NewRequest(http.MethodPost, "/ui/theme", strings.NewReader(url.Values{"dark": {"true"}}.Encode()))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	form.Header.Set(HeaderPrefersColorScheme, "light")
	assert.True(t, ObserveSystemDark(form, ws, true), "the submitted signal wins over the hint")
	assert.True(t, ObserveSystemDark(httptest.NewRequest(http.MethodGet, "/", nil), ws, false), "remembered")

	hinted := httptest.NewRequest(http.MethodGet, "/?dark=true", nil)
	hinted.Header.Set(HeaderPrefersColorScheme, "light")
	assert.False(t, ObserveSystemDark(hinted, ws, false), "query is ignored unless the form is read")
	assert.False(t, ws.Theme.SystemDark())
}
