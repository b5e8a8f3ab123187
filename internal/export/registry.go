package export

import (
	"fmt"
	"sort"
)

// Sources is every store capability the full report set needs. The SQLite
// repository satisfies it.
type Sources interface {
	Source
	EventSource
}

// Registry holds the runnable reports keyed by the name used on the command
// line and in export-request messages.
type Registry map[string]Report

func NewRegistry(src Sources, accounts AccountCodes, amounts *AmountFormatter) (Registry, error) {
	paid, err := NewPaidOrdersExporter(src, accounts, amounts)
	if err != nil {
		return nil, err
	}
	grouped, err := NewPaidOrdersGroupedExporter(src, accounts, amounts)
	if err != nil {
		return nil, err
	}

	return Registry{
		"paid_orders":         NewPipeline(paid),
		"paid_orders_grouped": NewPipeline(grouped),
		"events":              NewEventExporter(src, amounts),
	}, nil
}

func (r Registry) Get(name string) (Report, error) {
	report, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown report %q (available: %v)", name, r.Names())
	}
	return report, nil
}

// Names returns the report keys in stable order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
