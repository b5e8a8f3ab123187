// Package storage keeps the ticket-shop order data in SQLite and provides
// the queries the export reports extract from.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/aakb/pretix-itk-export/internal/core"
)

// ActionOrderRefunded is the audit-log action recorded when an order is
// refunded. The refund's effective date is the action timestamp; the order
// row itself keeps no refund date.
const ActionOrderRefunded = "pretix.event.order.refunded"

// Sentinel bounds applied to the refund window when a side is absent.
var (
	unboundedStart = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	unboundedEnd   = time.Date(2087, 1, 1, 0, 0, 0, 0, time.UTC)
)

type SQLiteRepository struct {
	db       *sql.DB
	provider string
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies pending migrations. provider is the payment-gateway key the
// extraction queries filter on.
func NewSQLiteRepository(dbPath, provider string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, provider: provider}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const orderColumns = `o.id, o.code, o.status, o.payment_provider, o.total_cents, o.created_at, o.payment_date,
	e.id, e.organizer, e.slug, e.name, e.date_from, e.meta`

// PaidOrders implements export.Source: orders paid through the configured
// provider with a positive total, paid inside the window, oldest payment
// first. Orders later refunded still count as paid sales here; the refund
// side is extracted separately.
func (r *SQLiteRepository) PaidOrders(ctx context.Context, w core.Window) ([]core.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN events e ON e.id = o.event_id
		WHERE o.status IN (?, ?) AND o.payment_provider = ? AND o.total_cents > 0`
	args := []any{string(core.StatusPaid), string(core.StatusRefunded), r.provider}

	if w.Start != nil {
		query += ` AND o.payment_date >= ?`
		args = append(args, w.Start.Unix())
	}
	if w.End != nil {
		query += ` AND o.payment_date < ?`
		args = append(args, w.End.Unix())
	}
	query += ` ORDER BY o.payment_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query paid orders: %w", err)
	}
	defer rows.Close()

	var orders []core.Order
	for rows.Next() {
		o, _, err := scanOrder(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scan paid order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// RefundedOrders implements export.Source. The window applies to the refund
// date, which is the timestamp of the order's most recent refund action in
// the audit log, not to the payment date: an order paid in one period and
// refunded in the next belongs to the later period's refund set.
func (r *SQLiteRepository) RefundedOrders(ctx context.Context, w core.Window) ([]core.RefundedOrder, error) {
	start, end := unboundedStart, unboundedEnd
	if w.Start != nil {
		start = *w.Start
	}
	if w.End != nil {
		end = *w.End
	}

	query := `SELECT ` + orderColumns + `, MAX(l.created_at) AS refund_date
		FROM orders o
		JOIN events e ON e.id = o.event_id
		JOIN audit_log l ON l.object_id = o.id AND l.action_type = ?
		WHERE o.status = ? AND o.payment_provider = ? AND o.total_cents > 0
		GROUP BY o.id
		HAVING refund_date >= ? AND refund_date < ?
		ORDER BY refund_date`

	rows, err := r.db.QueryContext(ctx, query,
		ActionOrderRefunded, string(core.StatusRefunded), r.provider, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("query refunded orders: %w", err)
	}
	defer rows.Close()

	var refunded []core.RefundedOrder
	for rows.Next() {
		o, refundDate, err := scanOrder(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scan refunded order: %w", err)
		}
		refunded = append(refunded, core.RefundedOrder{Order: o, RefundDate: refundDate})
	}
	return refunded, rows.Err()
}

// PaidOrdersByCreation implements export.EventSource: paid orders windowed
// and ordered by creation date, without provider or amount constraints.
func (r *SQLiteRepository) PaidOrdersByCreation(ctx context.Context, w core.Window) ([]core.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN events e ON e.id = o.event_id
		WHERE o.status = ?`
	args := []any{string(core.StatusPaid)}

	if w.Start != nil {
		query += ` AND o.created_at >= ?`
		args = append(args, w.Start.Unix())
	}
	if w.End != nil {
		query += ` AND o.created_at < ?`
		args = append(args, w.End.Unix())
	}
	query += ` ORDER BY o.created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders by creation: %w", err)
	}
	defer rows.Close()

	var orders []core.Order
	for rows.Next() {
		o, _, err := scanOrder(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// CreateEvent stores an event and returns its id.
func (r *SQLiteRepository) CreateEvent(ctx context.Context, ev core.Event) (int64, error) {
	if err := ev.Validate(); err != nil {
		return 0, err
	}
	meta, err := json.Marshal(ev.Meta)
	if err != nil {
		return 0, fmt.Errorf("marshal event meta: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (organizer, slug, name, date_from, meta) VALUES (?, ?, ?, ?, ?)`,
		ev.Organizer, ev.Slug, ev.Name, ev.DateFrom.Unix(), string(meta))
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}
	return res.LastInsertId()
}

// CreateOrder stores an order and returns its id.
func (r *SQLiteRepository) CreateOrder(ctx context.Context, o core.Order) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}

	var paymentDate sql.NullInt64
	if o.PaymentDate != nil {
		paymentDate = sql.NullInt64{Int64: o.PaymentDate.Unix(), Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (code, event_id, status, payment_provider, total_cents, created_at, payment_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.Code, o.Event.ID, string(o.Status), o.PaymentProvider,
		o.Total.Shift(2).Round(0).IntPart(), o.Created.Unix(), paymentDate)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Order saved",
		"id", id,
		"code", o.Code,
		"status", o.Status,
		"total", o.Total.String())
	return id, nil
}

// RecordAction appends an audit-log entry for an order. Recording an order's
// refund action is what makes it visible to refund extraction.
func (r *SQLiteRepository) RecordAction(ctx context.Context, orderID int64, actionType string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (object_id, action_type, created_at) VALUES (?, ?, ?)`,
		orderID, actionType, at.Unix())
	if err != nil {
		return fmt.Errorf("record action: %w", err)
	}
	return nil
}

// SetOrderStatus updates an order's status, e.g. to refunded after a refund
// went through the payment gateway.
func (r *SQLiteRepository) SetOrderStatus(ctx context.Context, orderID int64, status core.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, string(status), orderID)
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("set order status: no order with id %d", orderID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner, withRefundDate bool) (core.Order, time.Time, error) {
	var (
		o           core.Order
		status      string
		totalCents  int64
		createdAt   int64
		paymentDate sql.NullInt64
		dateFrom    int64
		meta        string
		refundedAt  int64
	)

	dest := []any{
		&o.ID, &o.Code, &status, &o.PaymentProvider, &totalCents, &createdAt, &paymentDate,
		&o.Event.ID, &o.Event.Organizer, &o.Event.Slug, &o.Event.Name, &dateFrom, &meta,
	}
	if withRefundDate {
		dest = append(dest, &refundedAt)
	}
	if err := s.Scan(dest...); err != nil {
		return core.Order{}, time.Time{}, err
	}

	o.Status = core.OrderStatus(status)
	o.Total = decimal.New(totalCents, -2)
	o.Created = time.Unix(createdAt, 0).UTC()
	if paymentDate.Valid {
		t := time.Unix(paymentDate.Int64, 0).UTC()
		o.PaymentDate = &t
	}
	o.Event.DateFrom = time.Unix(dateFrom, 0).UTC()
	if err := json.Unmarshal([]byte(meta), &o.Event.Meta); err != nil {
		return core.Order{}, time.Time{}, fmt.Errorf("unmarshal event meta: %w", err)
	}

	var refundDate time.Time
	if withRefundDate {
		refundDate = time.Unix(refundedAt, 0).UTC()
	}
	return o, refundDate, nil
}
