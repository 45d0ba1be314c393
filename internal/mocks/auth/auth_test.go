package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/finnabbear/finnabear-web/internal/domain/auth"
	"github.com/finnabbear/finnabear-web/internal/ports"
)

func TestStubBackend_Defaults(t *testing.T) {
	stub := NewStubBackend()
	ctx := context.Background()

	sess, err := stub.Login(ctx, ports.LoginInput{Identifier: "x"})
	require.NoError(t, err)
	assert.Equal(t, "stub-token", sess.Token)
	assert.Equal(t, "stub", sess.User.Username)

	raw, err := stub.Me(ctx, "stub-token")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"username":"stub"`)
	assert.Equal(t, 2, stub.Calls())
}

func TestStubBackend_Overrides(t *testing.T) {
	boom := errors.New("boom")
	stub := &StubBackend{
		RegisterFunc: func(context.Context, ports.RegisterInput) (domainauth.Session, error) {
			return domainauth.Session{}, boom
		},
	}

	_, err := stub.Register(context.Background(), ports.RegisterInput{})
	assert.ErrorIs(t, err, boom)
}

func TestMemoryCookieJar(t *testing.T) {
	jar := NewMemoryCookieJar(map[string]string{"a": "1"})

	v, ok := jar.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	jar.Set(&http.Cookie{Name: "b", Value: "2"})
	jar.Set(&http.Cookie{Name: "a", MaxAge: -1})

	_, ok = jar.Get("a")
	assert.False(t, ok)
	v, _ = jar.Get("b")
	assert.Equal(t, "2", v)

	last, ok := jar.Last("a")
	require.True(t, ok)
	assert.Equal(t, -1, last.MaxAge)
	assert.Len(t, jar.Written(), 2)
}
