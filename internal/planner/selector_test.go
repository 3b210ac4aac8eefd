package planner

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSelectSource_Pinned(t *testing.T) {
	order := Order{SourceStockyardID: "sy-pinned", ProductCode: "coal", QuantityTonnes: decimal.NewFromInt(10)}
	ledger := NewLedger(nil)
	id, reason := SelectSource(order, nil, ledger)
	if id != "sy-pinned" || reason != SelectedPinned {
		t.Fatalf("SelectSource() = (%v, %v), want (sy-pinned, pinned)", id, reason)
	}
}

func TestSelectSource_Distance(t *testing.T) {
	near, far := 10.0, 50.0
	destLat, destLon := 10.0, 10.0
	stockyards := []Stockyard{
		{ID: "near", Latitude: &near, Longitude: &near, CurrentInventory: map[string]decimal.Decimal{"ore": decimal.NewFromInt(100)}},
		{ID: "far", Latitude: &far, Longitude: &far, CurrentInventory: map[string]decimal.Decimal{"ore": decimal.NewFromInt(100)}},
	}
	order := Order{
		ProductCode:          "ore",
		QuantityTonnes:       decimal.NewFromInt(50),
		DestinationLatitude:  &destLat,
		DestinationLongitude: &destLon,
	}
	ledger := NewLedger(stockyards)
	id, reason := SelectSource(order, stockyards, ledger)
	if id != "near" || reason != SelectedDistance {
		t.Fatalf("SelectSource() = (%v, %v), want (near, distance)", id, reason)
	}
}

func TestSelectSource_Abundance(t *testing.T) {
	stockyards := []Stockyard{
		{ID: "small", CurrentInventory: map[string]decimal.Decimal{"ore": decimal.NewFromInt(60)}},
		{ID: "large", CurrentInventory: map[string]decimal.Decimal{"ore": decimal.NewFromInt(200)}},
	}
	order := Order{ProductCode: "ore", QuantityTonnes: decimal.NewFromInt(50)}
	ledger := NewLedger(stockyards)
	id, reason := SelectSource(order, stockyards, ledger)
	if id != "large" || reason != SelectedAbundance {
		t.Fatalf("SelectSource() = (%v, %v), want (large, abundance)", id, reason)
	}
}

func TestSelectSource_None(t *testing.T) {
	stockyards := []Stockyard{
		{ID: "sy1", CurrentInventory: map[string]decimal.Decimal{"ore": decimal.NewFromInt(10)}},
	}
	order := Order{ProductCode: "ore", QuantityTonnes: decimal.NewFromInt(50)}
	ledger := NewLedger(stockyards)
	id, reason := SelectSource(order, stockyards, ledger)
	if id != "" || reason != SelectedNone {
		t.Fatalf("SelectSource() = (%v, %v), want (\"\", none)", id, reason)
	}
}
