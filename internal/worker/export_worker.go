package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aakb/pretix-itk-export/internal/amqp"
	"github.com/aakb/pretix-itk-export/internal/export"
	"github.com/aakb/pretix-itk-export/internal/sheets"
)

// ExportWorker runs export requests: it resolves the report, writes the CSV
// into the output directory and optionally delivers the rows to a sheet.
type ExportWorker struct {
	reports   export.Registry
	outputDir string
	sheet     sheets.RowAppender // nil disables sheet delivery
}

func NewExportWorker(reports export.Registry, outputDir string, sheet sheets.RowAppender) *ExportWorker {
	return &ExportWorker{
		reports:   reports,
		outputDir: outputDir,
		sheet:     sheet,
	}
}

// HandleExportRequest processes a single export request message.
func (w *ExportWorker) HandleExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	report, err := w.reports.Get(msg.Report)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Running export",
		"report", msg.Report,
		"start", msg.Start,
		"end", msg.End)

	rows, err := report.Rows(ctx, msg.Window())
	if err != nil {
		return fmt.Errorf("run report %s: %w", msg.Report, err)
	}

	path := filepath.Join(w.outputDir, fileName(msg))
	if err := w.writeFile(path, rows); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Export written",
		"report", msg.Report,
		"path", path,
		"rows", len(rows))

	if w.sheet != nil {
		// The file on disk is authoritative; sheet delivery is best effort.
		if err := w.sheet.AppendRows(ctx, rows); err != nil {
			slog.ErrorContext(ctx, "Failed to deliver rows to sheet",
				"report", msg.Report,
				"error", err)
		}
	}

	return nil
}

func (w *ExportWorker) writeFile(path string, rows []export.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := export.WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write export file: %w", err)
	}
	return f.Close()
}

// fileName names the export after the report and its window bounds, so
// re-running the same request overwrites the same file.
func fileName(msg *amqp.ExportRequestMessage) string {
	return fmt.Sprintf("%s_%s_%s.csv", msg.Report, bound(msg.Start), bound(msg.End))
}

func bound(t *time.Time) string {
	if t == nil {
		return "open"
	}
	return t.UTC().Format("20060102")
}
