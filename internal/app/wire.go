//go:build wireinject

package app

import (
	"context"

	"fingraph/internal/config"
	"fingraph/internal/telemetry"

	"github.com/google/wire"
)

func buildAppWithWire(ctx context.Context, cfg *config.Config) (*App, error) {
	wire.Build(
		telemetry.New,
		provideClient,
		provideAppBuilder,
		wire.Bind(new(appBuilderDeps), new(*AppBuilder)),
		provideAppFromBuilder,
	)
	return nil, nil
}
