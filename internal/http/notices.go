package httpx

import (
	"context"
	"net/http"
	"sync"
)

// Modal callbacks only receive a context, so toasts they raise are queued on it
// and flushed into Hx-Trigger by the handler that ran them.

type notice struct {
	level   string
	message string
}

type noticeQueue struct {
	mu   sync.Mutex
	last *notice
}

type noticeKey struct{}

// withNotices returns a context that collects callback toasts.
func withNotices(ctx context.Context) (context.Context, *noticeQueue) {
	q := &noticeQueue{}
	return context.WithValue(ctx, noticeKey{}, q), q
}

// Notify queues a toast for the current request. The newest notice wins.
// It is a no-op outside a handler that collects notices.
func Notify(ctx context.Context, level, message string) {
	q, ok := ctx.Value(noticeKey{}).(*noticeQueue)
	if !ok {
		return
	}
	q.mu.Lock()
	q.last = &notice{level: level, message: message}
	q.mu.Unlock()
}

// flush writes the queued toast, if any. Call before the response header is written.
func (q *noticeQueue) flush(w http.ResponseWriter) {
	q.mu.Lock()
	n := q.last
	q.mu.Unlock()
	if n != nil {
		Toast(w, n.level, n.message)
	}
}
