//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"scd/internal"
	"scd/internal/controllers"
	"scd/internal/providers"
	"scd/internal/services"
	"scd/internal/statistic"
	"scd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewCacheProvider,
		providers.NewLoadSampler,
		providers.NewUpstreamSender,

		statistic.NewCounterStore,
		services.NewCounterService,
		services.NewQueryService,
		statistic.NewThresholdPolicy,
		statistic.NewInterceptor,
		statistic.NewSendPipeline,
		statistic.NewZstdCompressor,
		statistic.NewArchiver,
		statistic.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
