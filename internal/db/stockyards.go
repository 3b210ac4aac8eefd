package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Stockyard is the persisted row for a bulk-material storage location.
type Stockyard struct {
	ID             string
	Code           string
	Name           string
	Location       string
	Latitude       sql.NullFloat64
	Longitude      sql.NullFloat64
	CapacityTonnes string
}

// StockyardInventory is one product's on-hand balance at a stockyard.
type StockyardInventory struct {
	StockyardID string
	ProductCode string
	QuantityTonnes string
}

// ListStockyards returns every stockyard row.
func (q *Queries) ListStockyards(ctx context.Context) ([]Stockyard, error) {
	query := `SELECT id, code, name, location, latitude, longitude, capacity_tonnes FROM stockyards ORDER BY code`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stockyards: %w", err)
	}
	defer rows.Close()

	var out []Stockyard
	for rows.Next() {
		var s Stockyard
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Location, &s.Latitude, &s.Longitude, &s.CapacityTonnes); err != nil {
			return nil, fmt.Errorf("scan stockyard: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListInventory returns every stockyard/product balance.
func (q *Queries) ListInventory(ctx context.Context) ([]StockyardInventory, error) {
	query := `SELECT stockyard_id, product_code, quantity_tonnes FROM stockyard_inventory`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var out []StockyardInventory
	for rows.Next() {
		var inv StockyardInventory
		if err := rows.Scan(&inv.StockyardID, &inv.ProductCode, &inv.QuantityTonnes); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
