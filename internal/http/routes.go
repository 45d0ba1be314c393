package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	finnabear "github.com/finnabbear/finnabear-web"
	"github.com/finnabbear/finnabear-web/internal/observability/statsd"
	"github.com/finnabbear/finnabear-web/internal/service"
)

// Source directories used in dev mode for hot reloading.
const (
	TemplatePathFromRoot = "frontend/templates"
	StaticPathFromRoot   = "frontend/static"
)

// RouterConfig carries the HTTP-facing settings of the router.
type RouterConfig struct {
	IsDev               bool
	SecureCookies       bool
	CookieDomain        string
	CSRFEnabled         bool
	WorkspaceCookieName string
	// DemoDelay is forwarded to UIHandlers.DemoDelay.
	DemoDelay time.Duration
}

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Actions    *service.AuthActions // Required
	Workspaces *service.Workspaces  // Required
	// Renderer overrides the template renderer built from the embedded or on-disk templates.
	Renderer *TemplateRenderer
	// Ready backs /readyz; nil reports ready.
	Ready ReadinessCheck
	// Metrics receives request counters and timings; nil disables them.
	Metrics statsd.Sink
	Config  RouterConfig
	Logger  *slog.Logger
}

// NewRouter creates and configures the HTTP handler.
// Health and static routes bypass the workspace and CSRF middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := services.Renderer
	if renderer == nil {
		var err error
		renderer, err = NewTemplateRenderer(TemplateRendererConfig{
			TemplateFS: templateFS(services.Config.IsDev, logger),
			DevMode:    services.Config.IsDev,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
	}

	actions := &ActionHandlers{Actions: services.Actions, T: renderer, Logger: logger}
	uiHandlers := &UIHandlers{T: renderer, Logger: logger, DemoDelay: services.Config.DemoDelay}

	app := http.NewServeMux()
	registerActionRoutes(app, actions)
	registerUIRoutes(app, uiHandlers)

	appMiddleware := []func(http.Handler) http.Handler{}
	if services.Config.CSRFEnabled {
		appMiddleware = append(appMiddleware, CSRFProtection(CSRFConfig{
			CookieDomain: services.Config.CookieDomain,
			Secure:       services.Config.SecureCookies,
		}))
	}
	appMiddleware = append(appMiddleware, WithWorkspace(WorkspaceConfig{
		Registry:   services.Workspaces,
		CookieName: services.Config.WorkspaceCookieName,
		Secure:     services.Config.SecureCookies,
	}))

	root := http.NewServeMux()
	root.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	root.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	root.Handle("GET /readyz", readyHandler(services.Ready, logger))
	root.Handle("GET /static/", staticHandler(services.Config.IsDev, logger))
	root.Handle("/", Chain(app, appMiddleware...))

	return Chain(root, Recover(logger), Logging(logger), Metrics(services.Metrics)), nil
}

func registerActionRoutes(mux *http.ServeMux, h *ActionHandlers) {
	mux.HandleFunc("POST /actions/login", h.Login)
	mux.HandleFunc("POST /actions/register", h.Register)
	mux.HandleFunc("POST /actions/logout", h.Logout)
	mux.HandleFunc("GET /actions/me", h.Me)
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /", h.Home)
	mux.HandleFunc("GET /playground", h.Playground)
	mux.HandleFunc("GET /ui/state", h.State)
	mux.HandleFunc("GET /ui/auth-modal", h.OpenAuthModal)
	mux.HandleFunc("POST /ui/auth-modal/close", h.CloseAuthModal)
	mux.HandleFunc("POST /ui/modal/confirm", h.ConfirmModal)
	mux.HandleFunc("POST /ui/modal/cancel", h.CancelModal)
	mux.HandleFunc("POST /ui/modal/demo", h.DemoModal)
	mux.HandleFunc("POST /ui/logout/confirm", h.ConfirmLogout)
	mux.HandleFunc("POST /ui/theme", h.SetTheme)
	mux.HandleFunc("POST /ui/theme/sync", h.SyncTheme)
	mux.HandleFunc("POST /ui/sidebar/toggle", h.ToggleSidebar)
	mux.HandleFunc("POST /ui/sidebar", h.SetSidebar)
	mux.HandleFunc("POST /ui/loading/begin", h.BeginLoading)
	mux.HandleFunc("POST /ui/loading/end", h.EndLoading)
	mux.HandleFunc("POST /ui/toast/demo", h.DemoToast)
}

// templateFS reads from disk in dev mode and from the embedded copy otherwise.
func templateFS(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(finnabear.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		logger.Warn("failed to create sub-filesystem for templates; falling back to disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	var fsys http.FileSystem
	if isDev {
		fsys = http.Dir(StaticPathFromRoot)
	} else if sub, err := fs.Sub(finnabear.StaticFS, StaticPathFromRoot); err == nil {
		fsys = http.FS(sub)
	} else {
		logger.Warn("failed to create sub-filesystem for static assets; falling back to disk", "error", err)
		fsys = http.Dir(StaticPathFromRoot)
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(fsys)), isDev)
}

func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		handler.ServeHTTP(w, r)
	})
}
