package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/aakb/pretix-itk-export/internal/amqp"
	"github.com/aakb/pretix-itk-export/internal/core"
	"github.com/aakb/pretix-itk-export/internal/export"
)

type staticSource struct {
	paid     []core.Order
	refunded []core.RefundedOrder
}

func (s *staticSource) PaidOrders(ctx context.Context, w core.Window) ([]core.Order, error) {
	return s.paid, nil
}

func (s *staticSource) RefundedOrders(ctx context.Context, w core.Window) ([]core.RefundedOrder, error) {
	return s.refunded, nil
}

func (s *staticSource) PaidOrdersByCreation(ctx context.Context, w core.Window) ([]core.Order, error) {
	return s.paid, nil
}

type recordingSheet struct {
	rows []export.Row
}

func (r *recordingSheet) AppendRows(ctx context.Context, rows []export.Row) error {
	r.rows = rows
	return nil
}

func testRegistry(t *testing.T, src export.Sources) export.Registry {
	t.Helper()
	accounts, err := export.NewAccountCodes("9434", "4980")
	if err != nil {
		t.Fatal(err)
	}
	reports, err := export.NewRegistry(src, accounts, export.NewAmountFormatter(language.Danish))
	if err != nil {
		t.Fatal(err)
	}
	return reports
}

func TestExportWorker_HandleExportRequest(t *testing.T) {
	paidAt := time.Date(2018, 3, 10, 12, 0, 0, 0, time.UTC)
	src := &staticSource{
		paid: []core.Order{{
			Code:        "A1",
			Status:      core.StatusPaid,
			Total:       decimal.RequireFromString("100.00"),
			Created:     paidAt,
			PaymentDate: &paidAt,
			Event: core.Event{
				ID:   1,
				Slug: "fest",
				Meta: map[string]string{core.MetaPSP: "XG-1"},
			},
		}},
	}

	outputDir := t.TempDir()
	sheet := &recordingSheet{}
	w := NewExportWorker(testRegistry(t, src), outputDir, sheet)

	start := time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2018, 4, 1, 0, 0, 0, 0, time.UTC)
	msg := amqp.NewExportRequestMessage("paid_orders_grouped", &start, &end)

	if err := w.HandleExportRequest(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(outputDir, "paid_orders_grouped_20180301_20180401.csv")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export file not written: %v", err)
	}

	content := string(data)
	if !strings.HasPrefix(content, "Artskonto,") {
		t.Errorf("file should start with the header row, got %q", content[:40])
	}
	if !strings.Contains(content, "Ticket sale: fest-A1") {
		t.Errorf("file should contain the sale memo, got:\n%s", content)
	}
	// The decimal comma forces csv quoting.
	if !strings.Contains(content, `"100,00"`) {
		t.Errorf("file should contain the formatted amount, got:\n%s", content)
	}

	// Header plus debit and credit group rows went to the sheet too.
	if len(sheet.rows) != 3 {
		t.Errorf("sheet rows = %d, want 3", len(sheet.rows))
	}
}

func TestExportWorker_UnknownReport(t *testing.T) {
	w := NewExportWorker(testRegistry(t, &staticSource{}), t.TempDir(), nil)

	msg := amqp.NewExportRequestMessage("bogus", nil, nil)
	if err := w.HandleExportRequest(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown report")
	}
}

func TestExportWorker_OpenWindowFileName(t *testing.T) {
	w := NewExportWorker(testRegistry(t, &staticSource{}), t.TempDir(), nil)

	msg := amqp.NewExportRequestMessage("paid_orders", nil, nil)
	if err := w.HandleExportRequest(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(w.outputDir, "paid_orders_open_open.csv")); err != nil {
		t.Errorf("expected open-window file name: %v", err)
	}
}
