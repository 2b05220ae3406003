//go:build wireinject
// +build wireinject

package di

import (
	"StockCast/pkg/config"
	"StockCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// The cleanup function closes infrastructure clients in reverse order.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideProviderMetrics,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideLogCollector,

		// Repositories and services
		ProvideQuoteProvider,
		ProvideMockData,
		ProvideForecastStore,
		ProvideForecastPublisher,
		ProvideForecaster,
		ProvideIndicatorCalculator,

		// Use cases
		ProvideStockUsecase,
		ProvideForecastUsecase,
		ProvideSearchUsecase,
		ProvideMarketUsecase,
		ProvideNewsUsecase,

		// Background work
		ProvideQueue,
		ProvideScheduler,

		// HTTP
		ProvideHTTPHandlers,
		ProvideRateLimiter,
		ProvideHTTPServer,

		ProvideApp,
	)
	return nil, nil, nil
}
