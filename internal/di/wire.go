//go:build wireinject
// +build wireinject

package di

import (
	"CryptoRadar/pkg/config"
	"CryptoRadar/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient services
		ProvideLogger,
		ProvideMetrics,
		ProvideLimiter,
		ProvideCache,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideSignalPublisher,

		// Market data
		ProvidePriceBook,
		ProvideMarketDataProvider,
		ProvideTickStream,
		ProvideTickPipeline,
		ProvideTickCollector,

		// Evaluation pipeline
		ProvideAnalyzer,
		ProvideSynthesizer,
		ProvidePriceEngine,
		ProvideRankingPipeline,
		ProvideChartService,
		ProvideScheduler,

		// HTTP and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
