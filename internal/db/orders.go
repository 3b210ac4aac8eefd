package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Order is the persisted row for a pending transport order.
type Order struct {
	ID                   string
	OrderNumber          string
	ProductCode          string
	QuantityTonnes        string // numeric, scanned as text to preserve exact decimal precision
	SourceStockyardID    sql.NullString
	Destination          string
	DestinationLatitude  sql.NullFloat64
	DestinationLongitude sql.NullFloat64
	Priority             int
	DueDate              time.Time
	SLAHours             sql.NullFloat64
	Status               string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// UpsertOrderParams mirrors the fields accepted from the reference store or
// a CSV ingest row.
type UpsertOrderParams struct {
	OrderNumber          string
	ProductCode          string
	QuantityTonnes       string
	SourceStockyardID    sql.NullString
	Destination          string
	DestinationLatitude  sql.NullFloat64
	DestinationLongitude sql.NullFloat64
	Priority             int
	DueDate              time.Time
	SLAHours             sql.NullFloat64
}

// UpsertOrder inserts or refreshes an order keyed by order_number.
func (q *Queries) UpsertOrder(ctx context.Context, p UpsertOrderParams) (string, error) {
	query := `
		INSERT INTO orders (
			order_number, product_code, quantity_tonnes, source_stockyard_id,
			destination, destination_latitude, destination_longitude,
			priority, due_date, sla_hours, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'pending')
		ON CONFLICT (order_number) DO UPDATE SET
			product_code = EXCLUDED.product_code,
			quantity_tonnes = EXCLUDED.quantity_tonnes,
			source_stockyard_id = EXCLUDED.source_stockyard_id,
			destination = EXCLUDED.destination,
			destination_latitude = EXCLUDED.destination_latitude,
			destination_longitude = EXCLUDED.destination_longitude,
			priority = EXCLUDED.priority,
			due_date = EXCLUDED.due_date,
			sla_hours = EXCLUDED.sla_hours,
			updated_at = NOW()
		RETURNING id
	`
	var id string
	err := q.db.QueryRowContext(ctx, query,
		p.OrderNumber, p.ProductCode, p.QuantityTonnes, p.SourceStockyardID,
		p.Destination, p.DestinationLatitude, p.DestinationLongitude,
		p.Priority, p.DueDate, p.SLAHours,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert order %s: %w", p.OrderNumber, err)
	}
	return id, nil
}

// ListPendingOrders returns every order eligible to be planned.
func (q *Queries) ListPendingOrders(ctx context.Context) ([]Order, error) {
	query := `
		SELECT id, order_number, product_code, quantity_tonnes, source_stockyard_id,
		       destination, destination_latitude, destination_longitude,
		       priority, due_date, sla_hours, status, created_at, updated_at
		FROM orders
		WHERE status = 'pending'
		ORDER BY priority ASC, due_date ASC
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.ProductCode, &o.QuantityTonnes, &o.SourceStockyardID,
			&o.Destination, &o.DestinationLatitude, &o.DestinationLongitude,
			&o.Priority, &o.DueDate, &o.SLAHours, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MarkOrderAssigned implements planner.CommitStore: flips a pending order to
// assigned. Missing rows are reported so the caller can treat them as a
// tolerated commit anomaly rather than aborting.
func (q *Queries) MarkOrderAssigned(ctx context.Context, orderID string) error {
	result, err := q.db.ExecContext(ctx, `
		UPDATE orders SET status = 'assigned', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, orderID)
	if err != nil {
		return fmt.Errorf("mark order assigned: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("order %s not found or not pending", orderID)
	}
	return nil
}
