//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/marvin-fritz/webapi/pkg/config"
	"github.com/marvin-fritz/webapi/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideTradeStore,
		ProvideCache,

		// Use cases
		ProvideSentimentUseCase,
		ProvideBreadthUseCase,
		ProvideTickerUseCase,
		ProvideDashboardUseCase,
		ProvideTradesUseCase,

		// Ingestion
		ProvideKafkaConsumer,
		ProvideFilingsHandler,

		// HTTP surface
		ProvideHandlers,

		ProvideApp,
	)
	return nil, nil
}
