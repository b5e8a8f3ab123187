package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  OrderStatus = "pending"
	StatusPaid     OrderStatus = "paid"
	StatusExpired  OrderStatus = "expired"
	StatusCanceled OrderStatus = "canceled"
	StatusRefunded OrderStatus = "refunded"
)

// Event metadata keys this system reads. Everything else in Meta is opaque.
const (
	MetaPSP      = "PSP"
	MetaAudience = "Audience"
)

type (
	OrderStatus string

	// Event is the read-only event an order belongs to.
	Event struct {
		ID        int64
		Organizer string
		Slug      string
		Name      string
		DateFrom  time.Time
		Meta      map[string]string
	}

	// Order is a read-only ticket-shop order. Total carries the full order
	// amount in currency units with minor-unit precision.
	Order struct {
		ID              int64
		Code            string
		Event           Event
		Status          OrderStatus
		PaymentProvider string
		Total           decimal.Decimal
		Created         time.Time
		PaymentDate     *time.Time
	}

	// RefundedOrder is an order annotated with the timestamp of its most
	// recent refund action. The order itself does not store when it was
	// refunded; the audit log does.
	RefundedOrder struct {
		Order
		RefundDate time.Time
	}

	// Window is a half-open time range [Start, End). A nil bound leaves
	// that side unbounded.
	Window struct {
		Start *time.Time
		End   *time.Time
	}
)

var (
	ErrEmptyCode      = errors.New("empty order code")
	ErrEmptySlug      = errors.New("empty event slug")
	ErrEmptyOrganizer = errors.New("empty organizer")
	ErrZeroCreated    = errors.New("order creation time cannot be zero")
)

// CostCenter returns the PSP element routing revenue for this event to a
// budget line, or "" when the event carries none.
func (e Event) CostCenter() string {
	return e.Meta[MetaPSP]
}

// Audience returns the expected audience size recorded on the event, or "".
func (e Event) Audience() string {
	return e.Meta[MetaAudience]
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.Slug) == "" {
		return ErrEmptySlug
	}
	if strings.TrimSpace(e.Organizer) == "" {
		return ErrEmptyOrganizer
	}
	if e.DateFrom.IsZero() {
		return errors.New("event start date cannot be zero")
	}
	return nil
}

// Reference is the external payment reference for the order, as it appears
// on bank statements and in export memo texts.
func (o Order) Reference() string {
	return o.Event.Slug + "-" + o.Code
}

func (o Order) Validate() error {
	if strings.TrimSpace(o.Code) == "" {
		return ErrEmptyCode
	}
	if o.Created.IsZero() {
		return ErrZeroCreated
	}
	switch o.Status {
	case StatusPending, StatusPaid, StatusExpired, StatusCanceled, StatusRefunded:
	default:
		return errors.New("invalid order status: " + string(o.Status))
	}
	return nil
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && !t.Before(*w.End) {
		return false
	}
	return true
}

// Between builds a bounded window [start, end).
func Between(start, end time.Time) Window {
	return Window{Start: &start, End: &end}
}
