package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/finnabbear/finnabear-web/config"
	"github.com/finnabbear/finnabear-web/internal/observability/statsd"
)

// ConnectMetrics dials StatsD when metrics are enabled. A nil client means disabled.
func ConnectMetrics(cfg config.MetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	if !cfg.IsEnabled() {
		return nil, nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect statsd: %w", err)
	}
	if logger != nil {
		logger.Info("statsd metrics enabled", "addr", cfg.StatsdAddress, "prefix", cfg.Prefix)
	}
	return client, nil
}
