package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/railops/rake-planner/internal/db"
	"github.com/railops/rake-planner/internal/planner"
)

// CommitPlan re-derives a planning Result from the persisted plan rows and
// runs the C9 terminal commit against it, returning the commit anomaly
// messages (tolerated, non-fatal reference mismatches). Exported so both the
// HTTP handler and the offline CLI commit against exactly what was
// generated and stored, never a client- or operator-supplied body.
func CommitPlan(ctx context.Context, queries *db.Queries, planID string) ([]string, error) {
	dbRakes, err := queries.GetPlanRakes(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("load plan rakes: %w", err)
	}
	if len(dbRakes) == 0 {
		return nil, planner.NotFoundError("plan", planID)
	}

	result := planner.Result{Rakes: make([]planner.PlanRake, 0, len(dbRakes))}
	for _, pr := range dbRakes {
		var orders []assignedOrderView
		if err := json.Unmarshal(pr.OrdersJSON, &orders); err != nil {
			return nil, fmt.Errorf("decode plan rake orders: %w", err)
		}
		rake := planner.PlanRake{RakeNumber: pr.RakeNumber}
		for _, o := range orders {
			rake.OrdersAssigned = append(rake.OrdersAssigned, planner.AssignedOrder{OrderID: o.OrderID})
		}
		result.Rakes = append(result.Rakes, rake)
	}

	anomalies, err := planner.Commit(ctx, queries, planID, result)
	if err != nil {
		return nil, err
	}

	anomalyMessages := make([]string, 0, len(anomalies))
	for _, a := range anomalies {
		anomalyMessages = append(anomalyMessages, a.Error())
	}
	return anomalyMessages, nil
}
