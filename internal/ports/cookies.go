package ports

import "net/http"

// CookieJar reads the incoming request's cookies and queues outgoing ones.
// Expiring a cookie is a Set with MaxAge < 0.
type CookieJar interface {
	Get(name string) (string, bool)
	Set(c *http.Cookie)
}
