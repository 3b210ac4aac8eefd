package db

import (
	"context"
	"fmt"
)

// Rake is the persisted row for a candidate train unit.
type Rake struct {
	ID                  string
	RakeNumber          string
	WagonTypeCode       string
	NumWagons           int
	TotalCapacityTonnes string
	Status              string
	CurrentLocation     string
}

// ListAvailableRakes returns every rake currently eligible for planning.
func (q *Queries) ListAvailableRakes(ctx context.Context) ([]Rake, error) {
	query := `
		SELECT id, rake_number, wagon_type_code, num_wagons, total_capacity_tonnes, status, current_location
		FROM rakes
		WHERE status = 'available'
		ORDER BY rake_number
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list available rakes: %w", err)
	}
	defer rows.Close()

	var out []Rake
	for rows.Next() {
		var r Rake
		if err := rows.Scan(&r.ID, &r.RakeNumber, &r.WagonTypeCode, &r.NumWagons, &r.TotalCapacityTonnes, &r.Status, &r.CurrentLocation); err != nil {
			return nil, fmt.Errorf("scan rake: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarkRakeAssigned implements planner.CommitStore: flips an available rake
// to assigned, keyed by its rake number (the denormalized identifier a
// plan carries, since rake inventory can churn between planning and
// commit).
func (q *Queries) MarkRakeAssigned(ctx context.Context, rakeNumber string) error {
	result, err := q.db.ExecContext(ctx, `
		UPDATE rakes SET status = 'assigned'
		WHERE rake_number = $1 AND status = 'available'
	`, rakeNumber)
	if err != nil {
		return fmt.Errorf("mark rake assigned: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("rake %s not found or not available", rakeNumber)
	}
	return nil
}
