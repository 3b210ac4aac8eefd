package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeCommitStore struct {
	committed     bool
	rakesMarked   []string
	ordersMarked  []string
	failRake      string
	failOrder     string
}

func (f *fakeCommitStore) IsCommitted(ctx context.Context, planID string) (bool, error) {
	return f.committed, nil
}

func (f *fakeCommitStore) MarkCommitted(ctx context.Context, planID string) error {
	f.committed = true
	return nil
}

func (f *fakeCommitStore) MarkRakeAssigned(ctx context.Context, rakeNumber string) error {
	if rakeNumber == f.failRake {
		return errors.New("rake not found")
	}
	f.rakesMarked = append(f.rakesMarked, rakeNumber)
	return nil
}

func (f *fakeCommitStore) MarkOrderAssigned(ctx context.Context, orderID string) error {
	if orderID == f.failOrder {
		return errors.New("order not found")
	}
	f.ordersMarked = append(f.ordersMarked, orderID)
	return nil
}

func sampleResult() Result {
	return Result{
		Rakes: []PlanRake{
			{
				RakeNumber: "RK-1",
				OrdersAssigned: []AssignedOrder{
					{OrderID: "o1", Quantity: decimal.NewFromInt(100)},
					{OrderID: "o2", Quantity: decimal.NewFromInt(100)},
				},
			},
		},
	}
}

func TestCommit_HappyPath(t *testing.T) {
	store := &fakeCommitStore{}
	anomalies, err := Commit(context.Background(), store, "plan-1", sampleResult())
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(anomalies) != 0 {
		t.Fatalf("anomalies = %v, want none", anomalies)
	}
	if !store.committed {
		t.Fatalf("plan not marked committed")
	}
	if len(store.rakesMarked) != 1 || len(store.ordersMarked) != 2 {
		t.Fatalf("rakesMarked=%v ordersMarked=%v", store.rakesMarked, store.ordersMarked)
	}
}

func TestCommit_AlreadyCommitted(t *testing.T) {
	store := &fakeCommitStore{committed: true}
	_, err := Commit(context.Background(), store, "plan-1", sampleResult())
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("Commit() error = %v, want ErrPreconditionFailed", err)
	}
}

func TestCommit_ToleratesMissingReferences(t *testing.T) {
	store := &fakeCommitStore{failOrder: "o2"}
	anomalies, err := Commit(context.Background(), store, "plan-1", sampleResult())
	if err != nil {
		t.Fatalf("Commit() error = %v, want nil (anomalies tolerated)", err)
	}
	if len(anomalies) != 1 {
		t.Fatalf("anomalies = %v, want 1", anomalies)
	}
	if !errors.Is(anomalies[0], ErrCommitAnomaly) {
		t.Fatalf("anomaly = %v, want ErrCommitAnomaly", anomalies[0])
	}
	if !store.committed {
		t.Fatalf("plan should still be committed despite a tolerated anomaly")
	}
}
