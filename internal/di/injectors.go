//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"github.com/rabmarut/ChildChainGaugeInjector/internal"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/controllers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/persistence"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/services"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewClockProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewAuthProvider,
		providers.NewChainProvider,
		providers.NewHistoryProvider,

		services.NewInjectorService,
		wire.Bind(new(persistence.SnapshotSource), new(services.InjectorServiceInterface)),
		persistence.NewZstdCompressor,
		persistence.NewFileManager,
		persistence.NewScheduler,
		controllers.NewInjectorController,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
