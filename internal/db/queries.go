package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Queries provides access to all database operations.
type Queries struct {
	db *sql.DB
}

// New creates a new Queries instance.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// DB returns the underlying database connection.
func (q *Queries) DB() *sql.DB {
	return q.db
}

// TruncateAnalysisTables clears all planning-run data and orders. Reference
// tables (products,
// stockyards, rakes, wagon_types, loading_points) are left intact.
func (q *Queries) TruncateAnalysisTables(ctx context.Context) error {
	tables := []string{
		"plan_rakes",
		"plans",
		"planning_jobs",
		"orders",
	}

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin truncate transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	return tx.Commit()
}
