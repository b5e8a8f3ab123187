package export

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/aakb/pretix-itk-export/internal/core"
)

// Report is one runnable export: rows for a window, plus the metadata a
// selection UI shows.
type Report interface {
	Name() string
	Description() string
	Rows(ctx context.Context, w core.Window) ([]Row, error)
}

// Source is the order-store capability the posting exporters need. Both
// methods apply the provider, positive-amount and window constraints; the
// refunded set is windowed on the refund action timestamp, not the payment
// date.
type Source interface {
	PaidOrders(ctx context.Context, w core.Window) ([]core.Order, error)
	RefundedOrders(ctx context.Context, w core.Window) ([]core.RefundedOrder, error)
}

// OrderExporter is one posting-report variant: how to load the two order
// sets and how to turn them into rows.
type OrderExporter interface {
	Description() string
	LoadPaid(ctx context.Context, w core.Window) ([]core.Order, error)
	LoadRefunded(ctx context.Context, w core.Window) ([]core.RefundedOrder, error)
	Format(paid []core.Order, refunded []core.RefundedOrder) []Row
}

// Pipeline runs an OrderExporter: extraction of both order sets, then
// formatting. The header row always comes first.
type Pipeline struct {
	exporter OrderExporter
}

func NewPipeline(exporter OrderExporter) *Pipeline {
	return &Pipeline{exporter: exporter}
}

func (p *Pipeline) Name() string {
	return displayName(p.exporter)
}

func (p *Pipeline) Description() string {
	return p.exporter.Description()
}

func (p *Pipeline) Rows(ctx context.Context, w core.Window) ([]Row, error) {
	paid, err := p.exporter.LoadPaid(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("load paid orders: %w", err)
	}
	refunded, err := p.exporter.LoadRefunded(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("load refunded orders: %w", err)
	}
	return p.exporter.Format(paid, refunded), nil
}

// Info returns the report name and description separated by a blank line.
func Info(r Report) string {
	return r.Name() + "\n\n" + r.Description()
}

// displayName derives a human-readable name from the exporter's type name:
// "PaidOrdersGroupedExporter" becomes "Paid orders grouped".
func displayName(exporter any) string {
	name := fmt.Sprintf("%T", exporter)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "Exporter")

	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func plainOrders(refunded []core.RefundedOrder) []core.Order {
	orders := make([]core.Order, len(refunded))
	for i, r := range refunded {
		orders[i] = r.Order
	}
	return orders
}
