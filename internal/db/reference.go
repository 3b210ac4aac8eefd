package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Product is a reference row for a transportable bulk material.
type Product struct {
	Code        string
	Name        string
	Description sql.NullString
}

// WagonType is a reference row describing a wagon class's per-unit capacity.
type WagonType struct {
	Code            string
	Name            string
	CapacityTonnes  string
}

// LoadingPoint is a reference row for a physical loading location at a
// stockyard.
type LoadingPoint struct {
	ID          string
	StockyardID string
	Name        string
	MaxRakes    int
}

// ProductWagonCompatibility records which wagon types may carry a product.
type ProductWagonCompatibility struct {
	ProductCode   string
	WagonTypeCode string
}

// ListProducts returns every product reference row.
func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT code, name, description FROM products ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.Code, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertProduct creates or updates a product reference row.
func (q *Queries) UpsertProduct(ctx context.Context, p Product) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO products (code, name, description) VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
	`, p.Code, p.Name, p.Description)
	return err
}

// DeleteProduct removes a product reference row.
func (q *Queries) DeleteProduct(ctx context.Context, code string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM products WHERE code = $1`, code)
	return err
}

// ListWagonTypes returns every wagon type reference row.
func (q *Queries) ListWagonTypes(ctx context.Context) ([]WagonType, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT code, name, capacity_tonnes FROM wagon_types ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list wagon types: %w", err)
	}
	defer rows.Close()

	var out []WagonType
	for rows.Next() {
		var w WagonType
		if err := rows.Scan(&w.Code, &w.Name, &w.CapacityTonnes); err != nil {
			return nil, fmt.Errorf("scan wagon type: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// UpsertWagonType creates or updates a wagon type reference row.
func (q *Queries) UpsertWagonType(ctx context.Context, w WagonType) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO wagon_types (code, name, capacity_tonnes) VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, capacity_tonnes = EXCLUDED.capacity_tonnes
	`, w.Code, w.Name, w.CapacityTonnes)
	return err
}

// ListLoadingPoints returns every loading point for a stockyard.
func (q *Queries) ListLoadingPoints(ctx context.Context, stockyardID string) ([]LoadingPoint, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, stockyard_id, name, max_rakes FROM loading_points WHERE stockyard_id = $1 ORDER BY name
	`, stockyardID)
	if err != nil {
		return nil, fmt.Errorf("list loading points: %w", err)
	}
	defer rows.Close()

	var out []LoadingPoint
	for rows.Next() {
		var lp LoadingPoint
		if err := rows.Scan(&lp.ID, &lp.StockyardID, &lp.Name, &lp.MaxRakes); err != nil {
			return nil, fmt.Errorf("scan loading point: %w", err)
		}
		out = append(out, lp)
	}
	return out, rows.Err()
}

// ListCompatibility returns every product/wagon-type compatibility row.
func (q *Queries) ListCompatibility(ctx context.Context) ([]ProductWagonCompatibility, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT product_code, wagon_type_code FROM product_wagon_compatibility`)
	if err != nil {
		return nil, fmt.Errorf("list compatibility: %w", err)
	}
	defer rows.Close()

	var out []ProductWagonCompatibility
	for rows.Next() {
		var c ProductWagonCompatibility
		if err := rows.Scan(&c.ProductCode, &c.WagonTypeCode); err != nil {
			return nil, fmt.Errorf("scan compatibility row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
