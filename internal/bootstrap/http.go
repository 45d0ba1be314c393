package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finnabbear/finnabear-web/config"
)

const (
	shutdownTimeout    = 10 * time.Second
	writeTimeoutMargin = 10 * time.Second
)

// RunOptions contains what Run needs to serve the application.
type RunOptions struct {
	Config   *config.AppConfig // Required
	Services *Services         // Required
	// Listener overrides binding Config.HTTP.Addr.
	Listener net.Listener
	Logger   *slog.Logger
}

// Run serves HTTP and sweeps idle workspaces until ctx is cancelled or
// SIGINT/SIGTERM arrives, then shuts the server down gracefully.
func Run(ctx context.Context, opts RunOptions) error {
	if opts.Config == nil || opts.Services == nil {
		return errors.New("bootstrap: config and services are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln := opts.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", opts.Config.HTTP.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", opts.Config.HTTP.Addr, err)
		}
	}

	server := newServer(opts.Services.Handler, ln.Addr().String(), writeTimeout(opts.Config))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "starting HTTP server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		opts.Services.Workspaces.RunSweeper(gctx, opts.Config.Workspace.SweepInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")
		return shutdownServer(server)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}

func newServer(handler http.Handler, addr string, write time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      write,
		IdleTimeout:       120 * time.Second,
	}
}

// writeTimeout must outlast the slowest backend call, otherwise a login that
// succeeds upstream loses its Set-Cookie response. An unbounded backend gets an
// unbounded write.
func writeTimeout(cfg *config.AppConfig) time.Duration {
	if cfg.HTTP.WriteTimeout > 0 {
		return max(cfg.HTTP.WriteTimeout, cfg.Backend.Timeout+writeTimeoutMargin)
	}
	if cfg.Backend.Timeout <= 0 {
		return 0
	}
	return cfg.Backend.Timeout + writeTimeoutMargin
}

func shutdownServer(server *http.Server) error {
	// The parent context is already done here.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
