package export

import (
	"github.com/aakb/pretix-itk-export/internal/core"
)

// GroupKey identifies a posting group. An empty CostCenter means the posting
// carries no PSP element, which is always the case on the bank side of an
// entry.
type GroupKey struct {
	Artskonto  string
	CostCenter string
}

// OrderGroups accumulates orders per (artskonto, cost center) pair. Keys
// iterate in first-insertion order so repeated runs over the same data
// produce the same row sequence.
type OrderGroups struct {
	keys    []GroupKey
	members map[GroupKey][]core.Order
}

func NewOrderGroups() *OrderGroups {
	return &OrderGroups{members: make(map[GroupKey][]core.Order)}
}

func (g *OrderGroups) Add(key GroupKey, o core.Order) {
	if _, ok := g.members[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.members[key] = append(g.members[key], o)
}

// Keys returns the group keys in first-insertion order.
func (g *OrderGroups) Keys() []GroupKey {
	return g.keys
}

// Members returns the orders contributing to a group.
func (g *OrderGroups) Members(key GroupKey) []core.Order {
	return g.members[key]
}

func (g *OrderGroups) Len() int {
	return len(g.keys)
}

// GroupByAccount places every order into both sides of its entry: the debit
// account with no cost center, and the credit account with the order's event
// cost center. Summation is left to the caller so memo texts can list the
// member references.
func GroupByAccount(orders []core.Order, accounts AccountCodes) *OrderGroups {
	groups := NewOrderGroups()
	for _, o := range orders {
		groups.Add(GroupKey{Artskonto: accounts.Debit}, o)
		groups.Add(GroupKey{Artskonto: accounts.Credit, CostCenter: o.Event.CostCenter()}, o)
	}
	return groups
}
