package planner

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedger_HaveAndReserve(t *testing.T) {
	stockyards := []Stockyard{
		{ID: "sy1", CurrentInventory: map[string]decimal.Decimal{"iron-ore": decimal.NewFromInt(1000)}},
	}
	ledger := NewLedger(stockyards)

	if got := ledger.Have("sy1", "iron-ore"); !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("Have() = %v, want 1000", got)
	}
	if !ledger.CanFulfill("sy1", "iron-ore", decimal.NewFromInt(500)) {
		t.Fatalf("CanFulfill(500) = false, want true")
	}

	ledger.Reserve("sy1", "iron-ore", decimal.NewFromInt(600))
	if got := ledger.Have("sy1", "iron-ore"); !got.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("Have() after reserve = %v, want 400", got)
	}
	if ledger.CanFulfill("sy1", "iron-ore", decimal.NewFromInt(500)) {
		t.Fatalf("CanFulfill(500) = true after drawdown, want false")
	}
}

func TestLedger_ReserveClampsAtZero(t *testing.T) {
	stockyards := []Stockyard{
		{ID: "sy1", CurrentInventory: map[string]decimal.Decimal{"coal": decimal.NewFromInt(100)}},
	}
	ledger := NewLedger(stockyards)
	ledger.Reserve("sy1", "coal", decimal.NewFromInt(500))
	if got := ledger.Have("sy1", "coal"); !got.IsZero() {
		t.Fatalf("Have() after over-reserve = %v, want 0", got)
	}
}

func TestLedger_UnknownStockyardOrProduct(t *testing.T) {
	ledger := NewLedger(nil)
	if got := ledger.Have("missing", "anything"); !got.IsZero() {
		t.Fatalf("Have() for unknown stockyard = %v, want 0", got)
	}
	if ledger.CanFulfill("missing", "anything", decimal.NewFromInt(1)) {
		t.Fatalf("CanFulfill() for unknown stockyard = true, want false")
	}
}
