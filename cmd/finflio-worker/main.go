package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finflio/internal/config"
	"finflio/internal/events"
	"finflio/internal/export"
	gsheet "finflio/internal/export/google"
	memledger "finflio/internal/export/memory"
	applog "finflio/internal/log"
	"finflio/internal/store"
	memstore "finflio/internal/store/memory"
	sqlitestore "finflio/internal/store/sqlite"
	"finflio/internal/worker"
)

// The worker consumes transaction events and appends created transactions
// to an external ledger. It shares the SQLite database with the API server
// so it can load the full transaction behind each event.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting finflio-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	var txnStore store.TransactionStore
	switch cfg.DataBackend {
	case "sqlite":
		db, err := sqlitestore.Open(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer db.Close()
		txnStore = db
	default:
		txnStore = memstore.New()
		logger.Warn("Memory backend shares no data with the server; events for unknown transactions are skipped")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ledger export.LedgerWriter
	if cfg.SheetsExportEnabled() {
		client, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		ledger = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		ledger = memledger.New()
		logger.Info("Sheets export disabled - using in-memory ledger")
	}

	amqpClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(txnStore, ledger)

	go func() {
		if err := exportWorker.Run(ctx, amqpClient); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Event consumption failed", "error", err)
			cancel()
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
	logger.Info("Worker shutdown complete")
}
