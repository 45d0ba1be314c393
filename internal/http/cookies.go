package httpx

import (
	"net/http"
	"sync"

	"github.com/finnabbear/finnabear-web/internal/ports"
)

// RequestCookieJar adapts a request/response pair to ports.CookieJar.
// Cookies set during the request are visible to later Gets in the same request.
type RequestCookieJar struct {
	w http.ResponseWriter
	r *http.Request

	mu      sync.Mutex
	pending map[string]*http.Cookie
}

var _ ports.CookieJar = (*RequestCookieJar)(nil)

// NewRequestCookieJar wraps w and r.
func NewRequestCookieJar(w http.ResponseWriter, r *http.Request) *RequestCookieJar {
	return &RequestCookieJar{w: w, r: r, pending: map[string]*http.Cookie{}}
}

// Get returns the value for name, preferring cookies written during this request.
func (j *RequestCookieJar) Get(name string) (string, bool) {
	j.mu.Lock()
	c, ok := j.pending[name]
	j.mu.Unlock()
	if ok {
		if c.MaxAge < 0 {
			return "", false
		}
		return c.Value, true
	}

	rc, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return rc.Value, true
}

// Set writes a Set-Cookie header.
func (j *RequestCookieJar) Set(c *http.Cookie) {
	j.mu.Lock()
	j.pending[c.Name] = c
	j.mu.Unlock()
	http.SetCookie(j.w, c)
}
