package app

import (
	"context"
	"fmt"

	"fingraph/internal/chart"
	fgcfg "fingraph/internal/config"
	"fingraph/internal/gateway/backtestapi"
	"fingraph/internal/listing"
	"fingraph/internal/logger"
	"fingraph/internal/telemetry"
	"fingraph/internal/transport/http/dashboard"
)

type AppBuilder struct {
	cfg     *fgcfg.Config
	metrics *telemetry.Metrics
	client  *backtestapi.Client

	dashboardFn func(dashboard.Config) (*dashboard.Server, error)
}

type AppBuilderOption func(*AppBuilder)

// WithDashboardFactory swaps the server constructor, mostly for tests.
func WithDashboardFactory(fn func(dashboard.Config) (*dashboard.Server, error)) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.dashboardFn = fn
		}
	}
}

func NewAppBuilder(cfg *fgcfg.Config, metrics *telemetry.Metrics, client *backtestapi.Client, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:         cfg,
		metrics:     metrics,
		client:      client,
		dashboardFn: dashboard.NewServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if b.client == nil {
		return nil, fmt.Errorf("backtest client not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	aggregator := listing.NewAggregator(b.client)
	server, err := b.dashboardFn(dashboard.Config{
		Addr:      b.cfg.App.HTTPAddr,
		Results:   b.client,
		Submitter: b.client,
		Lister:    aggregator,
		Chart:     chart.OptionsFromConfig(b.cfg.Chart),
		Submit:    b.cfg.Submit,
		Metrics:   b.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}
	logger.Infof("✓ dashboard 已就绪，后端=%s", b.client.BaseURL())

	return &App{
		cfg:       b.cfg,
		dashboard: server,
		metrics:   b.metrics,
		Summary:   newStartupSummary(b.cfg),
	}, nil
}

func provideClient(cfg *fgcfg.Config, metrics *telemetry.Metrics) (*backtestapi.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	return backtestapi.NewClient(cfg.API, backtestapi.WithMetrics(metrics))
}
