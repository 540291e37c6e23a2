package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CryptoRadar/internal/domain/repository"
	"CryptoRadar/internal/handler/api"
	"CryptoRadar/internal/usecase"
	pkgch "CryptoRadar/pkg/clickhouse"
	"CryptoRadar/pkg/config"
	xhttp "CryptoRadar/pkg/http"
	applogger "CryptoRadar/pkg/logger"
)

// App encapsulates the entire application lifecycle: the ranking scheduler,
// the optional live tick collector and the HTTP API.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	scheduler  *usecase.Scheduler
	collector  *usecase.TickCollector
	handler    *api.Handler
	publisher  repository.SignalPublisher
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	scheduler *usecase.Scheduler,
	collector *usecase.TickCollector,
	handler *api.Handler,
	publisher repository.SignalPublisher,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		scheduler: scheduler,
		collector: collector,
		handler:   handler,
		publisher: publisher,
		chClient:  chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Live tick collector is optional; ranking works from snapshots alone.
	if a.collector != nil {
		if err := a.collector.Start(ctx); err != nil {
			a.log.Error("tick collector start error", applogger.Error(err))
		} else {
			a.log.Info("tick collector started", applogger.Strings("symbols", a.cfg.Stream.Symbols))
		}
	}

	go a.scheduler.Start(ctx)
	a.log.Info("ranking scheduler started", applogger.Duration("interval", a.cfg.Ranking.Interval))

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown(context.Background())
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.log.Warn("tick collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("signal publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Flush any aggregated logs still buffered.
	a.log.RemoveCollector()

	a.log.Info("shutdown complete")
	return nil
}
