package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/marvin-fritz/webapi/internal/usecase"
	pkgch "github.com/marvin-fritz/webapi/pkg/clickhouse"
	"github.com/marvin-fritz/webapi/pkg/config"
	xhttp "github.com/marvin-fritz/webapi/pkg/http"
	pkgkafka "github.com/marvin-fritz/webapi/pkg/kafka"
	applogger "github.com/marvin-fritz/webapi/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP API, optional Kafka
// ingestion and the infrastructure clients they share.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handlers   xhttp.Handler
	consumer   *pkgkafka.Consumer
	filings    *usecase.FilingsHandler
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates the application from its wired dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handlers xhttp.Handler,
	consumer *pkgkafka.Consumer,
	filings *usecase.FilingsHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		handlers: handlers,
		consumer: consumer,
		filings:  filings,
		chClient: chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
	}
	if rl := a.cfg.Server.RateLimit; rl.Enabled {
		opts = append(opts, xhttp.WithRateLimit(rl.Burst, rl.PerSecond))
	}
	a.httpServer = xhttp.NewServer(a.log, a.handlers, opts...)

	if a.consumer != nil && a.filings != nil {
		a.consumer.RegisterHandler(a.filings)
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer start failed", applogger.Error(err))
			return err
		}
		a.log.Info("kafka consumer started",
			applogger.String("topic", a.filings.Topic()),
			applogger.Strings("brokers", a.cfg.Kafka.Brokers))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start failed", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the HTTP server first so no new work arrives, then drains
// ingestion and closes the infrastructure clients.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Warn("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	if a.filings != nil {
		if err := a.filings.Flush(ctx); err != nil {
			a.log.Warn("filings flush error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
