package di

import (
	"context"
	"fmt"
	"time"

	"github.com/marvin-fritz/webapi/internal/domain/repository"
	"github.com/marvin-fritz/webapi/internal/handler/api"
	internalrepo "github.com/marvin-fritz/webapi/internal/repository"
	icache "github.com/marvin-fritz/webapi/internal/service/cache"
	"github.com/marvin-fritz/webapi/internal/usecase"
	pkgch "github.com/marvin-fritz/webapi/pkg/clickhouse"
	"github.com/marvin-fritz/webapi/pkg/config"
	xhttp "github.com/marvin-fritz/webapi/pkg/http"
	pkgkafka "github.com/marvin-fritz/webapi/pkg/kafka"
	"github.com/marvin-fritz/webapi/pkg/logger"
	"github.com/marvin-fritz/webapi/pkg/metrics"
	"github.com/marvin-fritz/webapi/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := append(
		[]string{"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database},
		internalrepo.TradeSchema(tradeTable(cfg))...,
	)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

func tradeTable(cfg *config.Config) string {
	return cfg.ClickHouse.Database + "." + cfg.ClickHouse.Table
}

// ProvideTradeStore creates the ClickHouse trade store.
func ProvideTradeStore(client *pkgch.Client, cfg *config.Config) repository.TradeStore {
	return internalrepo.NewClickHouseTradeStore(client.DB(), tradeTable(cfg))
}

// ProvideCache selects Redis when configured, in-process TTL map otherwise.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideSentimentUseCase creates the sentiment computation engine.
func ProvideSentimentUseCase(store repository.TradeStore, m repository.Metrics, log *logger.Logger, cfg *config.Config) *usecase.SentimentUseCase {
	return usecase.NewSentimentUseCase(store, m, log, cfg.Analytics)
}

// ProvideBreadthUseCase creates the market-breadth analyzer.
func ProvideBreadthUseCase(store repository.TradeStore, m repository.Metrics, log *logger.Logger, cfg *config.Config) *usecase.BreadthUseCase {
	return usecase.NewBreadthUseCase(store, m, log, cfg.Analytics)
}

// ProvideTickerUseCase creates the ticker signal generator.
func ProvideTickerUseCase(store repository.TradeStore, m repository.Metrics, log *logger.Logger, cfg *config.Config) *usecase.TickerUseCase {
	return usecase.NewTickerUseCase(store, m, log, cfg.Analytics)
}

// ProvideDashboardUseCase creates the dashboard aggregator.
func ProvideDashboardUseCase(store repository.TradeStore, m repository.Metrics, log *logger.Logger, cfg *config.Config) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(store, m, log, cfg.Analytics)
}

// ProvideTradesUseCase creates the raw trade read API.
func ProvideTradesUseCase(store repository.TradeStore, log *logger.Logger) *usecase.TradesUseCase {
	return usecase.NewTradesUseCase(store, log)
}

// ProvideHandlers assembles every HTTP handler into one route registrar.
func ProvideHandlers(
	sentiment *usecase.SentimentUseCase,
	breadth *usecase.BreadthUseCase,
	ticker *usecase.TickerUseCase,
	dashboard *usecase.DashboardUseCase,
	trades *usecase.TradesUseCase,
	store repository.TradeStore,
	bc icache.BytesCache,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) xhttp.Handler {
	ttl := cfg.Cache.TTL
	return xhttp.Handlers{
		api.NewSentimentHandler(sentiment, breadth, bc, m, log, ttl.Sentiment, ttl.Breadth),
		api.NewTickerHandler(ticker, bc, m, log, ttl.Ticker),
		api.NewDashboardHandler(dashboard, bc, m, log, ttl.Dashboard, ttl.Quick),
		api.NewTradesHandler(trades, log),
		api.NewHealthHandler(store),
	}
}

// ProvideKafkaConsumer creates the filings consumer, nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideFilingsHandler creates the ingestion handler, nil when disabled.
func ProvideFilingsHandler(store repository.TradeStore, m repository.Metrics, log *logger.Logger, cfg *config.Config) *usecase.FilingsHandler {
	if !cfg.Kafka.Enabled {
		return nil
	}
	return usecase.NewFilingsHandler(
		cfg.Kafka.FilingsTopic,
		store,
		m,
		log,
		cfg.Kafka.Consumer.BatchSize,
		cfg.Kafka.Consumer.BatchTimeout,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handlers xhttp.Handler,
	consumer *pkgkafka.Consumer,
	filings *usecase.FilingsHandler,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, log, handlers, consumer, filings, chClient)
}
