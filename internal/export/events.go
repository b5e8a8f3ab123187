package export

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aakb/pretix-itk-export/internal/core"
)

// EventSource lists paid orders by creation date for the event settlement
// summary. Unlike Source this applies no provider or amount constraint.
type EventSource interface {
	PaidOrdersByCreation(ctx context.Context, w core.Window) ([]core.Order, error)
}

// EventHeaders is the settlement summary schema.
var EventHeaders = []string{
	"Organizer",
	"Event",
	"Date",
	"Revenue",
	"Expenses",
	"Audience",
}

// EventExporter summarizes revenue and audience per event. It is not a
// posting report; finance uses it to settle events against their budgets.
type EventExporter struct {
	source  EventSource
	amounts *AmountFormatter
}

func NewEventExporter(source EventSource, amounts *AmountFormatter) *EventExporter {
	return &EventExporter{source: source, amounts: amounts}
}

func (e *EventExporter) Name() string {
	return displayName(e)
}

func (e *EventExporter) Description() string {
	return "Exports revenue and audience per event."
}

func (e *EventExporter) Rows(ctx context.Context, w core.Window) ([]Row, error) {
	orders, err := e.source.PaidOrdersByCreation(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("load paid orders: %w", err)
	}

	type eventGroup struct {
		event   core.Event
		revenue decimal.Decimal
	}

	// Group by event in first-seen order.
	var ids []int64
	groups := make(map[int64]*eventGroup)
	for _, o := range orders {
		g, ok := groups[o.Event.ID]
		if !ok {
			g = &eventGroup{event: o.Event}
			groups[o.Event.ID] = g
			ids = append(ids, o.Event.ID)
		}
		g.revenue = g.revenue.Add(o.Total)
	}

	rows := []Row{headerRow(EventHeaders)}
	for _, id := range ids {
		g := groups[id]

		row := make(Row, len(EventHeaders))
		row[0] = ptr(g.event.Organizer)
		row[1] = ptr(g.event.Name)
		row[2] = ptr(g.event.DateFrom.Format("2006-01-02"))
		row[3] = ptr(e.amounts.Format(g.revenue))
		row[4] = ptr(e.amounts.Format(decimal.Zero))
		if a := g.event.Audience(); a != "" {
			row[5] = ptr(a)
		}
		rows = append(rows, row)
	}

	return rows, nil
}
