package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/aakb/pretix-itk-export/internal/amqp"
	"github.com/aakb/pretix-itk-export/internal/config"
	"github.com/aakb/pretix-itk-export/internal/core"
	"github.com/aakb/pretix-itk-export/internal/export"
	"github.com/aakb/pretix-itk-export/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Log to stderr; stdout carries the CSV.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		reportName = flag.String("report", "paid_orders_grouped", "report to run")
		startFlag  = flag.String("start", "", "window start, inclusive (YYYY-MM-DD or RFC 3339)")
		endFlag    = flag.String("end", "", "window end, exclusive (YYYY-MM-DD or RFC 3339)")
		outPath    = flag.String("out", "", "write CSV to this file instead of stdout")
		list       = flag.Bool("list", false, "list available reports and exit")
		queue      = flag.Bool("queue", false, "publish an export request to AMQP instead of running locally")
	)
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	window, err := parseWindow(*startFlag, *endFlag)
	if err != nil {
		logger.Error("Invalid window", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *queue {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		msg := amqp.NewExportRequestMessage(*reportName, window.Start, window.End)
		if err := client.PublishExportRequest(ctx, msg); err != nil {
			logger.Error("Failed to publish export request", "error", err)
			os.Exit(1)
		}
		return
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

	if *list {
		for _, name := range reports.Names() {
			report, _ := reports.Get(name)
			fmt.Printf("%s\t%s: %s\n", name, report.Name(), report.Description())
		}
		return
	}

	report, err := reports.Get(*reportName)
	if err != nil {
		logger.Error("Unknown report", "error", err)
		os.Exit(1)
	}

	rows, err := report.Rows(ctx, window)
	if err != nil {
		logger.Error("Report failed", "report", *reportName, "error", err)
		os.Exit(1)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("Failed to create output file", "path", *outPath, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := export.WriteCSV(out, rows); err != nil {
		logger.Error("Failed to write CSV", "error", err)
		os.Exit(1)
	}

	logger.Info("Export complete", "report", *reportName, "rows", len(rows))
}

// parseWindow builds the half-open extraction window from the flag values.
// Dates without a time component mean midnight UTC.
func parseWindow(start, end string) (core.Window, error) {
	var w core.Window

	parse := func(s string) (time.Time, error) {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, nil
		}
		return time.Parse(time.RFC3339, s)
	}

	if start != "" {
		t, err := parse(start)
		if err != nil {
			return w, fmt.Errorf("parse start %q: %w", start, err)
		}
		w.Start = &t
	}
	if end != "" {
		t, err := parse(end)
		if err != nil {
			return w, fmt.Errorf("parse end %q: %w", end, err)
		}
		w.End = &t
	}
	if w.Start != nil && w.End != nil && !w.Start.Before(*w.End) {
		return w, fmt.Errorf("start %s is not before end %s", start, end)
	}

	return w, nil
}
