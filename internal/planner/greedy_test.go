package planner

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinRakeSize = decimal.NewFromInt(100)
	return cfg
}

func TestGreedyPack_SimplePack(t *testing.T) {
	snap := Snapshot{
		Orders: []Order{
			{ID: "o1", OrderNumber: "ORD-1", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(300), SourceStockyardID: "sy1", Destination: "Pune", Priority: 1, DueDate: time.Now()},
		},
		Stockyards: []Stockyard{
			{ID: "sy1", Code: "SY1", Name: "Yard One", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(1000)}},
		},
		Rakes: []Rake{
			{ID: "r1", RakeNumber: "RK-1", TotalCapacityTonnes: decimal.NewFromInt(500), Status: RakeStatusAvailable},
		},
	}
	res := GreedyPack(snap, testConfig())
	if len(res.Rakes) != 1 {
		t.Fatalf("len(res.Rakes) = %d, want 1", len(res.Rakes))
	}
	if res.OrdersFulfilled != 1 {
		t.Fatalf("OrdersFulfilled = %d, want 1", res.OrdersFulfilled)
	}
	if !res.Rakes[0].TotalWeight.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("TotalWeight = %v, want 300", res.Rakes[0].TotalWeight)
	}
}

func TestGreedyPack_MultiDestinationForbidden(t *testing.T) {
	snap := Snapshot{
		Orders: []Order{
			{ID: "o1", OrderNumber: "ORD-1", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(200), SourceStockyardID: "sy1", Destination: "Pune", Priority: 1, DueDate: time.Now()},
			{ID: "o2", OrderNumber: "ORD-2", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(200), SourceStockyardID: "sy1", Destination: "Nagpur", Priority: 1, DueDate: time.Now()},
		},
		Stockyards: []Stockyard{
			{ID: "sy1", Code: "SY1", Name: "Yard One", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(1000)}},
		},
		Rakes: []Rake{
			{ID: "r1", RakeNumber: "RK-1", TotalCapacityTonnes: decimal.NewFromInt(1000), Status: RakeStatusAvailable},
		},
	}
	cfg := testConfig()
	cfg.AllowMultiDestination = false
	res := GreedyPack(snap, cfg)
	if len(res.Rakes) != 1 {
		t.Fatalf("len(res.Rakes) = %d, want 1 (only one rake available)", len(res.Rakes))
	}
	if len(res.Rakes[0].Destinations) != 1 {
		t.Fatalf("len(Destinations) = %d, want 1 (destinations must not share a rake)", len(res.Rakes[0].Destinations))
	}
	if res.OrdersFulfilled != 1 {
		t.Fatalf("OrdersFulfilled = %d, want 1 (second destination left unassigned)", res.OrdersFulfilled)
	}
}

func TestGreedyPack_MultiDestinationAllowed(t *testing.T) {
	snap := Snapshot{
		Orders: []Order{
			{ID: "o1", OrderNumber: "ORD-1", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(200), SourceStockyardID: "sy1", Destination: "Pune", Priority: 1, DueDate: time.Now()},
			{ID: "o2", OrderNumber: "ORD-2", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(200), SourceStockyardID: "sy1", Destination: "Nagpur", Priority: 1, DueDate: time.Now()},
		},
		Stockyards: []Stockyard{
			{ID: "sy1", Code: "SY1", Name: "Yard One", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(1000)}},
		},
		Rakes: []Rake{
			{ID: "r1", RakeNumber: "RK-1", TotalCapacityTonnes: decimal.NewFromInt(1000), Status: RakeStatusAvailable},
		},
	}
	cfg := testConfig()
	cfg.AllowMultiDestination = true
	res := GreedyPack(snap, cfg)
	if len(res.Rakes) != 1 {
		t.Fatalf("len(res.Rakes) = %d, want 1 (multi-destination allowed, single rake)", len(res.Rakes))
	}
	if len(res.Rakes[0].Destinations) != 2 {
		t.Fatalf("len(Destinations) = %d, want 2", len(res.Rakes[0].Destinations))
	}
}

func TestGreedyPack_MinRakeSizeGate(t *testing.T) {
	snap := Snapshot{
		Orders: []Order{
			{ID: "o1", OrderNumber: "ORD-1", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(50), SourceStockyardID: "sy1", Destination: "Pune", Priority: 1, DueDate: time.Now()},
		},
		Stockyards: []Stockyard{
			{ID: "sy1", Code: "SY1", Name: "Yard One", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(1000)}},
		},
		Rakes: []Rake{
			{ID: "r1", RakeNumber: "RK-1", TotalCapacityTonnes: decimal.NewFromInt(500), Status: RakeStatusAvailable},
		},
	}
	cfg := testConfig() // MinRakeSize = 100, order only fills 50
	res := GreedyPack(snap, cfg)
	if len(res.Rakes) != 0 {
		t.Fatalf("len(res.Rakes) = %d, want 0 (below min rake size)", len(res.Rakes))
	}
	if res.OrdersFulfilled != 0 {
		t.Fatalf("OrdersFulfilled = %d, want 0 (dropped with the under-filled rake)", res.OrdersFulfilled)
	}
}

func TestGreedyPack_InventoryStarvation(t *testing.T) {
	snap := Snapshot{
		Orders: []Order{
			{ID: "o1", OrderNumber: "ORD-1", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(300), Destination: "Pune", Priority: 1, DueDate: time.Now()},
			{ID: "o2", OrderNumber: "ORD-2", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(300), Destination: "Pune", Priority: 2, DueDate: time.Now()},
		},
		Stockyards: []Stockyard{
			{ID: "sy1", Code: "SY1", Name: "Yard One", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(400)}},
		},
		Rakes: []Rake{
			{ID: "r1", RakeNumber: "RK-1", TotalCapacityTonnes: decimal.NewFromInt(1000), Status: RakeStatusAvailable},
		},
	}
	res := GreedyPack(snap, testConfig())
	if res.OrdersFulfilled != 1 {
		t.Fatalf("OrdersFulfilled = %d, want 1 (second order starved of inventory)", res.OrdersFulfilled)
	}
}

func TestGreedyPack_PinnedSourceInsufficientStock(t *testing.T) {
	snap := Snapshot{
		Orders: []Order{
			{ID: "o1", OrderNumber: "ORD-1", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(300), SourceStockyardID: "sy1", Destination: "Pune", Priority: 1, DueDate: time.Now()},
		},
		Stockyards: []Stockyard{
			{ID: "sy1", Code: "SY1", Name: "Yard One", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(50)}},
		},
		Rakes: []Rake{
			{ID: "r1", RakeNumber: "RK-1", TotalCapacityTonnes: decimal.NewFromInt(500), Status: RakeStatusAvailable},
		},
	}
	res := GreedyPack(snap, testConfig())
	if res.OrdersFulfilled != 0 {
		t.Fatalf("OrdersFulfilled = %d, want 0 (pinned source can't supply the order)", res.OrdersFulfilled)
	}
	if len(res.Rakes) != 0 {
		t.Fatalf("len(res.Rakes) = %d, want 0", len(res.Rakes))
	}
}

func TestGreedyPack_NoAvailableRakes(t *testing.T) {
	snap := Snapshot{
		Orders: []Order{
			{ID: "o1", OrderNumber: "ORD-1", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(300), SourceStockyardID: "sy1", Destination: "Pune", Priority: 1, DueDate: time.Now()},
		},
		Stockyards: []Stockyard{
			{ID: "sy1", Code: "SY1", Name: "Yard One", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(1000)}},
		},
		Rakes: []Rake{
			{ID: "r1", RakeNumber: "RK-1", TotalCapacityTonnes: decimal.NewFromInt(500), Status: RakeStatusMaintenance},
		},
	}
	res := GreedyPack(snap, testConfig())
	if res.OrdersFulfilled != 0 {
		t.Fatalf("OrdersFulfilled = %d, want 0 (no available rakes)", res.OrdersFulfilled)
	}
}
