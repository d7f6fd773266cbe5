//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject

package app

import (
	"context"

	"fingraph/internal/config"
	"fingraph/internal/gateway/backtestapi"
	"fingraph/internal/telemetry"
)

func buildAppWithWire(ctx context.Context, cfg *config.Config) (*App, error) {
	metrics := telemetry.New()
	client, err := provideClient(cfg, metrics)
	if err != nil {
		return nil, err
	}
	appBuilder := provideAppBuilder(cfg, metrics, client)
	app, err := provideAppFromBuilder(appBuilder, ctx)
	if err != nil {
		return nil, err
	}
	return app, nil
}

type appBuilderDeps interface {
	Build(context.Context) (*App, error)
}

func provideAppFromBuilder(b appBuilderDeps, ctx context.Context) (*App, error) {
	return b.Build(ctx)
}

func provideAppBuilder(cfg *config.Config, metrics *telemetry.Metrics, client *backtestapi.Client) *AppBuilder {
	return NewAppBuilder(cfg, metrics, client)
}
