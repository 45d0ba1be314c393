package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/finnabbear/finnabear-web/config"
	"github.com/finnabbear/finnabear-web/internal/adapters/backendapi"
	redisadapter "github.com/finnabbear/finnabear-web/internal/adapters/redis"
	httpx "github.com/finnabbear/finnabear-web/internal/http"
	"github.com/finnabbear/finnabear-web/internal/observability/statsd"
	"github.com/finnabbear/finnabear-web/internal/ports"
	"github.com/finnabbear/finnabear-web/internal/service"
)

// ServiceDeps contains the infrastructure the services are built from.
type ServiceDeps struct {
	Config *config.AppConfig // Required
	// Redis is optional; nil keeps preferences in process memory only.
	Redis redis.UniversalClient
	// Backend overrides the HTTP backend client built from Config.Backend.
	Backend ports.BackendAPI
	// Metrics is optional; nil disables request metrics.
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// Services is the wired application.
type Services struct {
	Actions    *service.AuthActions
	Workspaces *service.Workspaces
	Handler    http.Handler
}

// NewServices wires the backend client, auth actions, workspace registry and router.
func NewServices(deps ServiceDeps) (*Services, error) {
	if deps.Config == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backend := deps.Backend
	if backend == nil {
		client, err := backendapi.NewClient(backendapi.Config{
			BaseURL:     cfg.Backend.URL,
			Timeout:     cfg.Backend.Timeout,
			TokenPath:   cfg.Backend.TokenPath,
			UserPath:    cfg.Backend.UserPath,
			ProfilePath: cfg.Backend.ProfilePath,
			MessagePath: cfg.Backend.MessagePath,
			Logger:      logger.With("component", "backendapi"),
		})
		if err != nil {
			return nil, fmt.Errorf("create backend client: %w", err)
		}
		backend = client
	}

	actions := service.NewAuthActions(service.AuthActionsOptions{
		Backend: backend,
		Cookies: service.CookiePolicy{
			Secure: cfg.SecureCookies(),
			Domain: cfg.HTTP.CookieDomain,
			MaxAge: cfg.HTTP.SessionCookieMaxAge,
		},
		Logger: logger,
	})

	var prefs ports.PreferenceStore
	if deps.Redis != nil {
		prefs = redisadapter.NewPreferenceStore(deps.Redis, redisadapter.PreferenceStoreOptions{
			Prefix: cfg.Redis.KeyPrefix,
			TTL:    cfg.Redis.PreferenceTTL,
		})
	}

	workspaces := service.NewWorkspaces(service.WorkspacesOptions{
		Config: service.WorkspacesConfig{
			Capacity: cfg.Workspace.Capacity,
			IdleTTL:  cfg.Workspace.IdleTTL,
		},
		Deps:   service.WorkspaceDeps{Actions: actions, Preferences: prefs},
		Logger: logger,
	})

	handler, err := httpx.NewRouter(httpx.RouterServices{
		Actions:    actions,
		Workspaces: workspaces,
		Ready:      redisReadiness(deps.Redis),
		Metrics:    deps.Metrics,
		Config: httpx.RouterConfig{
			IsDev:               cfg.IsDev,
			SecureCookies:       cfg.SecureCookies(),
			CookieDomain:        cfg.HTTP.CookieDomain,
			CSRFEnabled:         cfg.HTTP.CSRFEnabled,
			WorkspaceCookieName: cfg.Workspace.CookieName,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	return &Services{Actions: actions, Workspaces: workspaces, Handler: handler}, nil
}

// redisReadiness pings Redis when it is configured; without it the service is always ready.
func redisReadiness(client redis.UniversalClient) httpx.ReadinessCheck {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
