package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestOptimalPack_ScaleGuardFallsBackToGreedy(t *testing.T) {
	var orders []Order
	for i := 0; i < optimalOrderScale+1; i++ {
		orders = append(orders, Order{
			ID: "o", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(10),
			SourceStockyardID: "sy1", DueDate: time.Now(),
		})
	}
	snap := Snapshot{
		Orders:     orders,
		Stockyards: []Stockyard{{ID: "sy1", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(100000)}}},
		Rakes:      []Rake{{ID: "r1", RakeNumber: "RK-1", TotalCapacityTonnes: decimal.NewFromInt(100000), Status: RakeStatusAvailable}},
	}
	res := OptimalPack(snap, testConfig())
	if !strings.Contains(res.Algorithm, "fallback") {
		t.Fatalf("Algorithm = %q, want fallback tag for oversized instance", res.Algorithm)
	}
}

func TestOptimalPack_SmallInstance(t *testing.T) {
	snap := Snapshot{
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
	res := OptimalPack(snap, testConfig())
	if res.Algorithm != "optimal" {
		t.Fatalf("Algorithm = %q, want %q", res.Algorithm, "optimal")
	}
	if res.OrdersFulfilled != 1 {
		t.Fatalf("OrdersFulfilled = %d, want 1", res.OrdersFulfilled)
	}
	if !res.DemurrageCost.IsZero() || !res.IdleCost.IsZero() {
		t.Fatalf("optimal path should zero demurrage/idle, got demurrage=%v idle=%v", res.DemurrageCost, res.IdleCost)
	}
}

func TestOptimalPack_PinnedSourceInsufficientStock(t *testing.T) {
	snap := Snapshot{
		Orders: []Order{
			{ID: "o1", OrderNumber: "ORD-1", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(300), SourceStockyardID: "sy1", Destination: "Pune", DueDate: time.Now()},
		},
		Stockyards: []Stockyard{
			{ID: "sy1", Code: "SY1", Name: "Yard One", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(50)}},
		},
		Rakes: []Rake{
			{ID: "r1", RakeNumber: "RK-1", TotalCapacityTonnes: decimal.NewFromInt(500), Status: RakeStatusAvailable},
		},
	}
	res := OptimalPack(snap, testConfig())
	if res.OrdersFulfilled != 0 {
		t.Fatalf("OrdersFulfilled = %d, want 0 (pinned source can't supply the order)", res.OrdersFulfilled)
	}
}
