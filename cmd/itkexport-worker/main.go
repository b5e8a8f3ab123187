package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/aakb/pretix-itk-export/internal/amqp"
	"github.com/aakb/pretix-itk-export/internal/config"
	"github.com/aakb/pretix-itk-export/internal/export"
	"github.com/aakb/pretix-itk-export/internal/sheets"
	gsheet "github.com/aakb/pretix-itk-export/internal/sheets/google"
	"github.com/aakb/pretix-itk-export/internal/storage"
	"github.com/aakb/pretix-itk-export/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting itkexport-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, cfg.PaymentProvider)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	accounts, err := export.NewAccountCodes(cfg.DebitArtskonto, cfg.CreditArtskonto)
	if err != nil {
		logger.Error("Invalid account configuration", "error", err)
		os.Exit(1)
	}

	reports, err := export.NewRegistry(repo, accounts, export.NewAmountFormatter(cfg.LocaleTag()))
	if err != nil {
		logger.Error("Failed to build report registry", "error", err)
		os.Exit(1)
	}

	// Google Sheets delivery is optional.
	var sheet sheets.RowAppender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewClient(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sheet = client
		logger.Info("Google Sheets delivery enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets delivery disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(reports, cfg.OutputDir, sheet)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeExportRequests(ctx, exportWorker.HandleExportRequest)
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
