package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Orders: []Order{
			{ID: "o1", OrderNumber: "ORD-1", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(300), SourceStockyardID: "sy1", Destination: "Pune", DueDate: time.Now()},
		},
		Stockyards: []Stockyard{
			{ID: "sy1", Code: "SY1", Name: "Yard One", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(1000)}},
		},
		Rakes: []Rake{
			{ID: "r1", RakeNumber: "RK-1", TotalCapacityTonnes: decimal.NewFromInt(500), Status: RakeStatusAvailable},
		},
	}
}

func TestDispatch_Greedy(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = "greedy"
	res, err := Dispatch(sampleSnapshot(), cfg, NewRegistry())
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Algorithm != "greedy" {
		t.Fatalf("Algorithm = %q, want greedy", res.Algorithm)
	}
}

func TestDispatch_Optimal(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = "optimal"
	res, err := Dispatch(sampleSnapshot(), cfg, NewRegistry())
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Algorithm != "optimal" {
		t.Fatalf("Algorithm = %q, want optimal", res.Algorithm)
	}
}

func TestDispatch_Hybrid(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = "hybrid"
	res, err := Dispatch(sampleSnapshot(), cfg, NewRegistry())
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Algorithm == "" {
		t.Fatalf("Algorithm tag missing on hybrid result")
	}
}

func TestDispatch_UnknownMode(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = "bogus"
	_, err := Dispatch(sampleSnapshot(), cfg, NewRegistry())
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("Dispatch() error = %v, want ErrConfig", err)
	}
}
