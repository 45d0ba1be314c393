package httpx

import (
	"context"

	"github.com/finnabbear/finnabear-web/internal/ports"
	"github.com/finnabbear/finnabear-web/internal/service"
)

// Unexported context key types avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type (
	workspaceKey struct{}
	cookieJarKey struct{}
)

// SetWorkspaceInContext returns a child context that carries ws.
func SetWorkspaceInContext(ctx context.Context, ws *service.Workspace) context.Context {
	if ws == nil {
		return ctx
	}
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// GetWorkspaceFromContext returns the request's workspace and whether one was attached.
func GetWorkspaceFromContext(ctx context.Context) (*service.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey{}).(*service.Workspace)
	return ws, ok && ws != nil
}

// SetCookieJarInContext attaches the request's cookie jar so modal callbacks,
// which only receive a context, can still write cookies.
func SetCookieJarInContext(ctx context.Context, jar ports.CookieJar) context.Context {
	if jar == nil {
		return ctx
	}
	return context.WithValue(ctx, cookieJarKey{}, jar)
}

// GetCookieJarFromContext returns the cookie jar attached by the workspace middleware.
func GetCookieJarFromContext(ctx context.Context) (ports.CookieJar, bool) {
	jar, ok := ctx.Value(cookieJarKey{}).(ports.CookieJar)
	return jar, ok && jar != nil
}
