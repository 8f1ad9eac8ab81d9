package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"despesas/internal/cli"
	apphttp "despesas/internal/http"
	"despesas/internal/log"
	"despesas/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting despesas", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)

	be := cli.InitBackend(context.Background(), logger, cfg)

	recordsLogger := logger.WithComponent(log.ComponentRecords)
	notifier := apphttp.NewNotifier(services.NewLogNotifier(recordsLogger))
	records := services.NewRecordService(be.Store, notifier, services.WithLogger(recordsLogger))

	srv := apphttp.NewServer(":"+cfg.Port, records, apphttp.WithLogger(logger))

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if be.Cleanup != nil {
			if err := be.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err)
			}
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	// The first load runs alongside the listener; /readyz reports loading
	// until it completes and a failure leaves the list empty.
	g.Go(func() error {
		if err := records.Refresh(gctx); err != nil {
			logger.Warn("Initial load failed", log.FieldError, err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server listening", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
