package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aakb/pretix-itk-export/internal/core"
)

// PaidOrdersGroupedExporter sums orders per (artskonto, PSP element) pair:
// one posting per group for the paid set, and one reversed posting per group
// for the refunded set.
type PaidOrdersGroupedExporter struct {
	source   Source
	accounts AccountCodes
	amounts  *AmountFormatter
	spec     ReportSpec
}

func NewPaidOrdersGroupedExporter(source Source, accounts AccountCodes, amounts *AmountFormatter) (*PaidOrdersGroupedExporter, error) {
	spec, err := NewReportSpec(Headers)
	if err != nil {
		return nil, err
	}
	return &PaidOrdersGroupedExporter{
		source:   source,
		accounts: accounts,
		amounts:  amounts,
		spec:     spec,
	}, nil
}

func (e *PaidOrdersGroupedExporter) Description() string {
	return "Exports paid orders grouped by (artskonto, PSP element)."
}

func (e *PaidOrdersGroupedExporter) LoadPaid(ctx context.Context, w core.Window) ([]core.Order, error) {
	return e.source.PaidOrders(ctx, w)
}

func (e *PaidOrdersGroupedExporter) LoadRefunded(ctx context.Context, w core.Window) ([]core.RefundedOrder, error) {
	return e.source.RefundedOrders(ctx, w)
}

// Format emits the paid groups first, then the refunded groups with the
// posting direction inverted. Amounts are summed on raw values and only
// formatted when the row is built.
func (e *PaidOrdersGroupedExporter) Format(paid []core.Order, refunded []core.RefundedOrder) []Row {
	rows := []Row{e.spec.HeaderRow()}
	rows = e.appendGroupRows(rows, GroupByAccount(paid, e.accounts), false)
	rows = e.appendGroupRows(rows, GroupByAccount(plainOrders(refunded), e.accounts), true)
	return rows
}

func (e *PaidOrdersGroupedExporter) appendGroupRows(rows []Row, groups *OrderGroups, refund bool) []Row {
	verb := "sale"
	if refund {
		verb = "refund"
	}

	for _, key := range groups.Keys() {
		members := groups.Members(key)

		total := decimal.Zero
		refs := make([]string, len(members))
		for i, o := range members {
			total = total.Add(o.Total)
			refs[i] = o.Reference()
		}

		row := e.spec.EmptyRow()
		row[e.spec.Artskonto] = ptr(key.Artskonto)
		if key.CostCenter != "" {
			row[e.spec.PSPElement] = ptr(key.CostCenter)
		}
		row[e.spec.DebetKredit] = ptr(string(PostingDirection(key.CostCenter, refund)))
		row[e.spec.Amount] = ptr(e.amounts.Format(total))
		row[e.spec.Text] = ptr(fmt.Sprintf("Ticket %s: %s", verb, strings.Join(refs, ", ")))
		rows = append(rows, row)
	}

	return rows
}
