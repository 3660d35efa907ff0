package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budget/internal/amqp"
	"budget/internal/config"
	"budget/internal/export"
	gsheet "budget/internal/export/google"
	applog "budget/internal/log"
	"budget/internal/report"
	"budget/internal/storage"
	"budget/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, "budget-worker")
	applog.SetDefault(logger)

	logger.Info("Starting budget-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker reads directly from the same SQLite database the server
	// writes to.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			"error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Google Sheets export is optional; without it messages are consumed and
	// dropped so the queue does not grow unbounded.
	var exporter export.ReportExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets client initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := report.NewEngine(repo)
	exportWorker := worker.NewExportWorker(engine, repo, exporter)

	// Catch up on anything missed while the worker was down.
	if exporter != nil {
		logger.Info("Performing startup export pass...")
		if err := exportWorker.ExportAll(ctx); err != nil {
			logger.Error("Startup export pass failed", "error", err)
			// Keep going; the periodic pass will retry.
		}
	}

	go func() {
		if err := amqpClient.ConsumeReportExports(ctx, exportWorker.HandleExportMessage); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	go func() {
		if err := exportWorker.RunPeriodicExports(ctx, cfg.ExportInterval); err != nil {
			if err != context.Canceled {
				logger.Error("Periodic exports stopped", "error", err)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Shutting down worker...")
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
