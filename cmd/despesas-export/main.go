// Command despesas-export writes the stored records to a dated CSV file in
// EXPORT_DIR and exits.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"despesas/internal/cli"
	"despesas/internal/export"
	"despesas/internal/log"
	"despesas/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentExport)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	be := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if be.Cleanup != nil {
			if err := be.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err)
			}
		}
	}()

	records := services.NewRecordService(be.Store, services.NewLogNotifier(logger), services.WithLogger(logger))
	if err := records.Refresh(ctx); err != nil {
		logger.Error("Failed to load records", log.FieldError, err)
		os.Exit(1)
	}

	path, err := export.WriteFile(cfg.ExportDir, time.Now(), records.Collection())
	if errors.Is(err, export.ErrNothingToExport) {
		logger.Info("Nothing to export", log.FieldOperation, log.OpExport)
		return
	}
	if err != nil {
		logger.Error("Export failed", log.FieldOperation, log.OpExport, log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Records exported",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(records.Collection()),
		"path", path)
}
