package cli

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/liftnav"
	"github.com/aretw0/liftnav/internal/config"
	"github.com/aretw0/liftnav/pkg/adapters/redis"
	"github.com/aretw0/liftnav/pkg/domain"
	"github.com/aretw0/liftnav/pkg/observability"
)

// Host bundles the coordinator and its ambient wiring for one process.
type Host struct {
	Nav     *liftnav.Coordinator
	Logger  *slog.Logger
	Metrics *observability.Metrics

	registry *prometheus.Registry
	cfg      *config.Config
}

// NewHost builds a coordinator from cfg with metrics and audit hooks attached.
func NewHost(cfg *config.Config, logger *slog.Logger) (*Host, error) {
	root, err := cfg.RootDestination()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	nav := liftnav.New(root,
		liftnav.WithName(cfg.Surface),
		liftnav.WithLogger(logger),
		liftnav.WithLifecycleHooks(domain.ChainHooks(
			metrics.Hooks(),
			observability.AuditHooks(logger),
		)),
	)
	return &Host{
		Nav:      nav,
		Logger:   logger,
		Metrics:  metrics,
		registry: reg,
		cfg:      cfg,
	}, nil
}

// MetricsHandler serves the host's Prometheus registry.
func (h *Host) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}

// StartMirror publishes snapshots to Redis in the background when an address is configured.
// It returns false when the mirror is disabled.
func (h *Host) StartMirror(ctx context.Context) (bool, error) {
	rc := h.cfg.Redis
	if rc.Addr == "" {
		return false, nil
	}
	m := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithLogger(h.Logger))
	if err := m.Ping(ctx); err != nil {
		m.Close()
		return false, err
	}
	go func() {
		defer m.Close()
		m.Run(ctx, h.Nav)
	}()
	return true, nil
}
