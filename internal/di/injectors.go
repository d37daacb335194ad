//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"sprintd/internal"
	"sprintd/internal/conflict"
	"sprintd/internal/controllers"
	"sprintd/internal/feed"
	"sprintd/internal/providers"
	"sprintd/internal/services"
	"sprintd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		conflict.NewEngine,
		services.NewTimelineService,
		feed.NewZstdCompressor,
		feed.NewSnapshotManager,
		feed.NewClient,
		feed.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
