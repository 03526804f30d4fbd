package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/printhub/server/internal/core"
)

func (d *DB) InsertOrder(ctx context.Context, o *core.Order) error {
	o.Version = 1
	_, err := d.conn.ExecContext(ctx, insertOrder,
		o.ID, o.CustomerName, o.Mobile, o.FileName, o.FileRef,
		o.Pages, o.Copies, o.Color, o.Sides, o.Size,
		o.PickupTime, o.Status, o.PaymentStatus, o.TransactionID, o.PaidAt,
		o.QueueType, o.PriorityIndex, o.PriorityScore,
		o.AssignedPrinterID, o.ProgressPct, o.PriceTotal,
		o.Version, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (d *DB) GetOrder(ctx context.Context, id string) (*core.Order, error) {
	o, err := scanOrder(d.conn.QueryRowContext(ctx, getOrderByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (d *DB) ListOrders(ctx context.Context, filter core.OrderFilter) ([]*core.Order, error) {
	query := listOrdersBase
	var conds []string
	var args []any

	if len(filter.Statuses) > 0 {
		placeholders := strings.Repeat("?, ", len(filter.Statuses))
		conds = append(conds, "status IN ("+placeholders[:len(placeholders)-2]+")")
		for _, s := range filter.Statuses {
			args = append(args, s)
		}
	}
	if filter.QueueType != "" {
		conds = append(conds, "queue_type = ?")
		args = append(args, filter.QueueType)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*core.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (d *DB) UpdateOrder(ctx context.Context, o *core.Order) error {
	result, err := d.conn.ExecContext(ctx, updateOrder,
		o.Status, o.PaymentStatus, o.TransactionID, o.PaidAt,
		o.QueueType, o.PriorityIndex, o.PriorityScore,
		o.AssignedPrinterID, o.ProgressPct, o.PriceTotal,
		o.UpdatedAt, o.ID, o.Version)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if n == 0 {
		if _, err := d.GetOrder(ctx, o.ID); errors.Is(err, core.ErrOrderNotFound) {
			return core.ErrOrderNotFound
		}
		return core.ErrVersionConflict
	}
	o.Version++
	return nil
}

// UpdateOrders applies all writes in one transaction; any stale version
// aborts the whole batch.
func (d *DB) UpdateOrders(ctx context.Context, orders []*core.Order) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, o := range orders {
		result, err := tx.ExecContext(ctx, updateOrder,
			o.Status, o.PaymentStatus, o.TransactionID, o.PaidAt,
			o.QueueType, o.PriorityIndex, o.PriorityScore,
			o.AssignedPrinterID, o.ProgressPct, o.PriceTotal,
			o.UpdatedAt, o.ID, o.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update order %s: %w", o.ID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update order %s: %w", o.ID, err)
		}
		if n == 0 {
			tx.Rollback()
			return core.ErrVersionConflict
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order batch: %w", err)
	}
	for _, o := range orders {
		o.Version++
	}
	return nil
}

func (d *DB) DeleteOrder(ctx context.Context, id string) (bool, error) {
	result, err := d.conn.ExecContext(ctx, deleteOrder, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*core.Order, error) {
	o := &core.Order{}
	var pickupTime, paidAt sql.NullTime

	err := row.Scan(
		&o.ID, &o.CustomerName, &o.Mobile, &o.FileName, &o.FileRef,
		&o.Pages, &o.Copies, &o.Color, &o.Sides, &o.Size,
		&pickupTime, &o.Status, &o.PaymentStatus, &o.TransactionID, &paidAt,
		&o.QueueType, &o.PriorityIndex, &o.PriorityScore,
		&o.AssignedPrinterID, &o.ProgressPct, &o.PriceTotal,
		&o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if pickupTime.Valid {
		t := pickupTime.Time
		o.PickupTime = &t
	}
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	return o, nil
}
