package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Plan is the persisted row for a generated rake formation plan.
type Plan struct {
	ID             string
	JobID          string
	Algorithm      string
	TotalCost      string
	FreightCost    string
	DemurrageCost  string
	IdleCost       string
	UtilizationPct float64
	Committed      bool
	CreatedAt      time.Time
}

// PlanRake is one rake's packed assignment within a persisted plan.
type PlanRake struct {
	ID             string
	PlanID         string
	RakeNumber     string
	OriginCode     string
	Destinations   []string
	OrdersJSON     json.RawMessage
	TotalWeight    string
	Capacity       string
	UtilizationPct float64
	FreightCost    string
	DemurrageCost  string
	IdleCost       string
}

// CreatePlanParams is everything needed to persist a plan and its rakes in
// one transaction.
type CreatePlanParams struct {
	PlanID         string
	JobID          string
	Algorithm      string
	TotalCost      string
	FreightCost    string
	DemurrageCost  string
	IdleCost       string
	UtilizationPct float64
	Rakes          []CreatePlanRakeParams
}

// CreatePlanRakeParams is one rake row to persist alongside its plan.
type CreatePlanRakeParams struct {
	RakeNumber     string
	OriginCode     string
	Destinations   []string
	OrdersJSON     json.RawMessage
	TotalWeight    string
	Capacity       string
	UtilizationPct float64
	FreightCost    string
	DemurrageCost  string
	IdleCost       string
}

// CreatePlan persists a plan and its rake rows atomically.
func (q *Queries) CreatePlan(ctx context.Context, p CreatePlanParams) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin plan transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (id, job_id, algorithm, total_cost, freight_cost, demurrage_cost, idle_cost, utilization_pct, committed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false)
	`, p.PlanID, p.JobID, p.Algorithm, p.TotalCost, p.FreightCost, p.DemurrageCost, p.IdleCost, p.UtilizationPct)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}

	for _, r := range p.Rakes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO plan_rakes (
				plan_id, rake_number, origin_code, destinations, orders,
				total_weight, capacity, utilization_pct, freight_cost, demurrage_cost, idle_cost
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, p.PlanID, r.RakeNumber, r.OriginCode, pq.Array(r.Destinations), r.OrdersJSON,
			r.TotalWeight, r.Capacity, r.UtilizationPct, r.FreightCost, r.DemurrageCost, r.IdleCost)
		if err != nil {
			return fmt.Errorf("insert plan rake %s: %w", r.RakeNumber, err)
		}
	}

	return tx.Commit()
}

// GetPlan fetches a plan header by id.
func (q *Queries) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	query := `
		SELECT id, job_id, algorithm, total_cost, freight_cost, demurrage_cost, idle_cost, utilization_pct, committed, created_at
		FROM plans WHERE id = $1
	`
	p := &Plan{}
	err := q.db.QueryRowContext(ctx, query, planID).Scan(
		&p.ID, &p.JobID, &p.Algorithm, &p.TotalCost, &p.FreightCost, &p.DemurrageCost,
		&p.IdleCost, &p.UtilizationPct, &p.Committed, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan not found: %s", planID)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// GetPlanRakes fetches every rake row belonging to a plan.
func (q *Queries) GetPlanRakes(ctx context.Context, planID string) ([]PlanRake, error) {
	query := `
		SELECT id, plan_id, rake_number, origin_code, destinations, orders,
		       total_weight, capacity, utilization_pct, freight_cost, demurrage_cost, idle_cost
		FROM plan_rakes WHERE plan_id = $1 ORDER BY rake_number
	`
	rows, err := q.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan rakes: %w", err)
	}
	defer rows.Close()

	var out []PlanRake
	for rows.Next() {
		var r PlanRake
		var destinations pq.StringArray
		if err := rows.Scan(
			&r.ID, &r.PlanID, &r.RakeNumber, &r.OriginCode, &destinations, &r.OrdersJSON,
			&r.TotalWeight, &r.Capacity, &r.UtilizationPct, &r.FreightCost, &r.DemurrageCost, &r.IdleCost,
		); err != nil {
			return nil, fmt.Errorf("scan plan rake: %w", err)
		}
		r.Destinations = []string(destinations)
		out = append(out, r)
	}
	return out, rows.Err()
}

// IsCommitted implements planner.CommitStore.
func (q *Queries) IsCommitted(ctx context.Context, planID string) (bool, error) {
	var committed bool
	err := q.db.QueryRowContext(ctx, `SELECT committed FROM plans WHERE id = $1`, planID).Scan(&committed)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("plan not found: %s", planID)
	}
	if err != nil {
		return false, fmt.Errorf("check plan committed: %w", err)
	}
	return committed, nil
}

// MarkCommitted implements planner.CommitStore.
func (q *Queries) MarkCommitted(ctx context.Context, planID string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE plans SET committed = true WHERE id = $1`, planID)
	if err != nil {
		return fmt.Errorf("mark plan committed: %w", err)
	}
	return nil
}
