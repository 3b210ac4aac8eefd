package planner

import (
	"context"
	"fmt"
)

// CommitStore is the persistence seam for C9: it flips the plan's committed
// flag, the status of every rake it references, and the status of every
// order it references. Each method is a separate call; Commit does not group
// them into one transaction, so rakes and orders already flipped stay
// flipped if a later call fails. Missing
// references (a rake or order number the plan cites but the store no longer
// has) are tolerated: they are logged as commit anomalies rather than
// aborting the whole commit, since a plan can be committed well after it was
// generated and the underlying rake/order rows can have moved on.
type CommitStore interface {
	IsCommitted(ctx context.Context, planID string) (bool, error)
	MarkCommitted(ctx context.Context, planID string) error
	MarkRakeAssigned(ctx context.Context, rakeNumber string) error
	MarkOrderAssigned(ctx context.Context, orderID string) error
}

// Commit performs the C9 terminal commit: it refuses to commit an
// already-committed plan, then best-effort flips every rake and order the
// plan result references, collecting (not aborting on) individual
// reference failures as commit anomalies.
func Commit(ctx context.Context, store CommitStore, planID string, result Result) ([]error, error) {
	committed, err := store.IsCommitted(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("check plan committed state: %w", err)
	}
	if committed {
		return nil, PreconditionFailedError("plan already committed")
	}

	var anomalies []error
	for _, rake := range result.Rakes {
		if err := store.MarkRakeAssigned(ctx, rake.RakeNumber); err != nil {
			anomalies = append(anomalies, CommitAnomalyError(fmt.Sprintf("rake %s: %v", rake.RakeNumber, err)))
		}
		for _, order := range rake.OrdersAssigned {
			if err := store.MarkOrderAssigned(ctx, order.OrderID); err != nil {
				anomalies = append(anomalies, CommitAnomalyError(fmt.Sprintf("order %s: %v", order.OrderID, err)))
			}
		}
	}

	if err := store.MarkCommitted(ctx, planID); err != nil {
		return anomalies, fmt.Errorf("mark plan committed: %w", err)
	}
	return anomalies, nil
}
