package backendapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/finnabbear/finnabear-web/internal/errors"
	"github.com/finnabbear/finnabear-web/internal/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func TestLogin_WrappedEnvelope(t *testing.T) {
	var got ports.LoginInput
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":{"token":"abc123","user":{"id":7,"username":"alice","email":"a@x","role":"admin"}}}`)
	})

	sess, err := c.Login(t.Context(), ports.LoginInput{Identifier: "alice", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, ports.LoginInput{Identifier: "alice", Password: "pw"}, got)
	assert.Equal(t, "abc123", sess.Token)
	require.NotNil(t, sess.User)
	assert.Equal(t, "7", sess.User.ID)
	assert.Equal(t, "alice", sess.User.Username)
	assert.Equal(t, "admin", sess.User.Extra["role"])
}

func TestRegister_BareEnvelope(t *testing.T) {
	var body map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"token":"t-1","user":{"id":"u1","username":"bob","email":"b@x"}}`)
	})

	sess, err := c.Register(t.Context(), ports.RegisterInput{Username: "bob", Email: "b@x", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"username": "bob", "email": "b@x", "password": "pw"}, body)
	assert.Equal(t, "t-1", sess.Token)
	assert.Equal(t, "u1", sess.User.ID)
}

func TestLogin_BackendErrorCarriesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"invalid credentials"}`)
	})

	_, err := c.Login(t.Context(), ports.LoginInput{Identifier: "alice", Password: "bad"})
	require.Error(t, err)
	assert.True(t, apperrors.IsBackend(err))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "invalid credentials", appErr.Message)
}

func TestLogin_BackendErrorWithoutJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := c.Login(t.Context(), ports.LoginInput{})
	require.Error(t, err)
	assert.True(t, apperrors.IsBackend(err))
	assert.Equal(t, "Login failed", apperrors.UserMessage(err, "Login failed"))
}

func TestLogin_MalformedSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "ok"},
		{name: "empty", body: ""},
		{name: "missing token", body: `{"data":{"user":{"id":1}}}`},
		{name: "missing user", body: `{"data":{"token":"abc"}}`},
		{name: "user not object", body: `{"token":"abc","user":"alice"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Login(t.Context(), ports.LoginInput{})
			require.Error(t, err)
			assert.True(t, apperrors.IsMalformed(err))
			assert.Equal(t, "Unexpected response from server", apperrors.UserMessage(err, ""))
		})
	}
}

func TestLogin_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = c.Login(t.Context(), ports.LoginInput{})
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.Equal(t, "Network error or server unavailable", apperrors.UserMessage(err, ""))
}

func TestMe_SendsBearerAndReturnsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":1,"username":"alice"}}`)
	})

	raw, err := c.Me(t.Context(), "abc123")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"id":1,"username":"alice"}}`, string(raw))
}

func TestMe_RejectsMissingOrInvalidToken(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("backend must not be called")
	})

	_, err := c.Me(t.Context(), "  ")
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, apperrors.GetCode(err))

	_, err = c.Me(t.Context(), "abc\r\nX-Injected: 1")
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, apperrors.GetCode(err))
}

func TestMe_BackendError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"token expired"}}`)
	})

	_, err := c.Me(t.Context(), "abc")
	require.Error(t, err)
	assert.True(t, apperrors.IsBackend(err))
	assert.Equal(t, "token expired", apperrors.UserMessage(err, "Failed to fetch user data"))
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)

	_, err = NewClient(Config{BaseURL: "http://x", TokenPath: "data.token ||"})
	require.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://x/api/"})
	require.NoError(t, err)
	assert.Equal(t, "http://x/api", c.baseURL)
	assert.Equal(t, DefaultTokenPath, c.tokenPath)
}
