package planner

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFreightCost(t *testing.T) {
	got := FreightCost(100, decimal.NewFromInt(50), 2.5)
	want := decimal.NewFromInt(12500)
	if !got.Equal(want) {
		t.Errorf("FreightCost() = %v, want %v", got, want)
	}
}

func TestDemurrageCost_BelowThreshold(t *testing.T) {
	got := DemurrageCost(71.8, 500)
	if !got.Equal(decimal.NewFromInt(12000)) {
		t.Errorf("DemurrageCost(71.8) = %v, want 12000", got)
	}
}

func TestDemurrageCost_AtOrAboveThreshold(t *testing.T) {
	cases := []float64{75.0, 90.0, 100.0}
	for _, util := range cases {
		got := DemurrageCost(util, 500)
		if !got.IsZero() {
			t.Errorf("DemurrageCost(%v) = %v, want 0", util, got)
		}
	}
}

func TestIdleCost(t *testing.T) {
	got := IdleCost(3, 100)
	if !got.Equal(decimal.NewFromInt(300)) {
		t.Errorf("IdleCost(3, 100) = %v, want 300", got)
	}
	if got := IdleCost(0, 100); !got.IsZero() {
		t.Errorf("IdleCost(0, 100) = %v, want 0", got)
	}
}

func TestUtilization(t *testing.T) {
	got := Utilization(decimal.NewFromInt(75), decimal.NewFromInt(100))
	if got != 75 {
		t.Errorf("Utilization(75/100) = %v, want 75", got)
	}
	if got := Utilization(decimal.NewFromInt(10), decimal.Zero); got != 0 {
		t.Errorf("Utilization with zero capacity = %v, want 0", got)
	}
}

func TestScalarizeCost(t *testing.T) {
	weights := CostWeights{Freight: 1.0, Demurrage: 0.5, Idle: 0.3}
	got := ScalarizeCost(decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(100), weights)
	want := decimal.NewFromFloat(180.0)
	if !got.Equal(want) {
		t.Errorf("ScalarizeCost() = %v, want %v", got, want)
	}
}
