package export

import (
	"context"
	"fmt"

	"github.com/aakb/pretix-itk-export/internal/core"
)

// PaidOrdersExporter lists every paid order as a balanced pair of postings:
// a credit against the revenue account followed by a debit against the bank
// account.
type PaidOrdersExporter struct {
	source   Source
	accounts AccountCodes
	amounts  *AmountFormatter
	spec     ReportSpec
}

func NewPaidOrdersExporter(source Source, accounts AccountCodes, amounts *AmountFormatter) (*PaidOrdersExporter, error) {
	spec, err := NewReportSpec(Headers)
	if err != nil {
		return nil, err
	}
	return &PaidOrdersExporter{
		source:   source,
		accounts: accounts,
		amounts:  amounts,
		spec:     spec,
	}, nil
}

func (e *PaidOrdersExporter) Description() string {
	return "Exports paid orders."
}

func (e *PaidOrdersExporter) LoadPaid(ctx context.Context, w core.Window) ([]core.Order, error) {
	return e.source.PaidOrders(ctx, w)
}

func (e *PaidOrdersExporter) LoadRefunded(ctx context.Context, w core.Window) ([]core.RefundedOrder, error) {
	return e.source.RefundedOrders(ctx, w)
}

// Format emits two rows per paid order in input order, amounts identical on
// both sides of the pair. The refunded set is intentionally not rendered by
// this variant; only the grouped variant reverses refunds.
func (e *PaidOrdersExporter) Format(paid []core.Order, _ []core.RefundedOrder) []Row {
	rows := []Row{e.spec.HeaderRow()}

	for _, o := range paid {
		amount := e.amounts.Format(o.Total)
		text := fmt.Sprintf("Ticket sale: %s", o.Reference())

		row := e.spec.EmptyRow()
		row[e.spec.DebetKredit] = ptr(string(Kredit))
		row[e.spec.Artskonto] = ptr(e.accounts.Credit)
		if cc := o.Event.CostCenter(); cc != "" {
			row[e.spec.PSPElement] = ptr(cc)
		}
		row[e.spec.Amount] = ptr(amount)
		row[e.spec.Text] = ptr(text)
		rows = append(rows, row)

		row = e.spec.EmptyRow()
		row[e.spec.DebetKredit] = ptr(string(Debet))
		row[e.spec.Artskonto] = ptr(e.accounts.Debit)
		row[e.spec.Amount] = ptr(amount)
		row[e.spec.Text] = ptr(text)
		rows = append(rows, row)
	}

	return rows
}
