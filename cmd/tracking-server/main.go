// Command tracking-server runs the vehicle tracking HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/api"
	"github.com/MishraAmit1/freightsynq-sub002/internal/app"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/config"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/queue"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/telemetry"
	"github.com/MishraAmit1/freightsynq-sub002/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: cfg.Telemetry.ServiceName,
		Env:     cfg.Env,
	})
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("init tracing")
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init application")
	}

	dispatcher := queue.NewDispatcher(cfg.Tracking.BatchWorkers, a.Service, logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.RouterDeps{
		Service:   a.Service,
		Queue:     dispatcher,
		JWTSecret: cfg.JWTSecret,
		Checks:    a.Checks,
		Log:       logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("tracking server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	dispatcher.Close()
	drained := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		log.Warn().Msg("refresh queue not drained before timeout")
	}
	stopWorkers()

	if err := a.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close stores")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("flush traces")
	}
}
