package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{"", " http/request ", "http_request"},
		{"web", "http..request", "web.http.request"},
		{"web", "..", ""},
		{"", "multi  space", "multi__space"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metricName(tt.prefix, tt.name), tt.name)
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " web "}
	local := map[string]string{"status": " 2xx ", "": "ignored", "env": "stage"}

	assert.Equal(t, "|#env:stage,service:web,status:2xx", formatTags(global, local))
	assert.Empty(t, formatTags(nil, nil))
}

func TestNewClient_DisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Config{Address: "  "})
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	// Dropped silently.
	c.Count("http.request", 1, nil)
	require.NoError(t, c.Close())

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	nilClient.Timing("x", time.Second, nil)
	assert.NoError(t, nilClient.Close())
}

func TestNewClient_DialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Address: "bad address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statsd dial")
}

func TestClient_WritesLines(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	c, err := NewClient(Config{Address: pc.LocalAddr().String(), Prefix: ".web.", Tags: map[string]string{"env": "test"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.True(t, c.Enabled())

	read := func() string {
		buf := make([]byte, 512)
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, rerr := pc.ReadFrom(buf)
		require.NoError(t, rerr)
		return string(buf[:n])
	}

	c.Count("http.request", 1, map[string]string{"status": "2xx"})
	assert.Equal(t, "web.http.request:1|c|#env:test,status:2xx", read())

	c.Timing("http.request.duration", 1500*time.Microsecond, nil)
	assert.Equal(t, "web.http.request.duration:1.5|ms|#env:test", read())

	require.NoError(t, c.Close())
	assert.False(t, c.Enabled())
}
