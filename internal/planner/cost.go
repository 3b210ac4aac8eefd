package planner

import "github.com/shopspring/decimal"

// DemurrageUtilizationThreshold is the utilization floor, as a percentage in
// [0, 100], below which a rake is assessed a demurrage penalty for running
// under-loaded.
const DemurrageUtilizationThreshold = 75.0

// FreightCost returns distance (km) * quantity (tonnes) * per-unit rate,
// computed in exact decimal so repeated additions across many rakes don't
// drift.
func FreightCost(distanceKM float64, quantity decimal.Decimal, ratePerTonneKM float64) decimal.Decimal {
	dist := decimal.NewFromFloat(distanceKM)
	rate := decimal.NewFromFloat(ratePerTonneKM)
	return dist.Mul(quantity).Mul(rate)
}

// DemurrageCost charges a flat per-rake penalty, demurrageRate * 24 hours,
// when utilization falls below DemurrageUtilizationThreshold, zero otherwise.
func DemurrageCost(utilizationPct float64, hourlyRate float64) decimal.Decimal {
	if utilizationPct >= DemurrageUtilizationThreshold {
		return decimal.Zero
	}
	return decimal.NewFromFloat(hourlyRate).Mul(decimal.NewFromInt(24))
}

// IdleCost is a flat per-order handling proxy, charged once per order packed
// onto the rake.
func IdleCost(numOrders int, perOrder float64) decimal.Decimal {
	if numOrders <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(perOrder).Mul(decimal.NewFromInt(int64(numOrders)))
}

// Utilization returns totalWeight/capacity as a percentage in [0, 100+].
// Capacity of zero returns zero rather than dividing by zero.
func Utilization(totalWeight, capacity decimal.Decimal) float64 {
	if capacity.IsZero() {
		return 0
	}
	pct, _ := totalWeight.Div(capacity).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// ScalarizeCost combines the three cost components into a single weighted
// total per spec's fixed default weights.
func ScalarizeCost(freight, demurrage, idle decimal.Decimal, weights CostWeights) decimal.Decimal {
	f := freight.Mul(decimal.NewFromFloat(weights.Freight))
	d := demurrage.Mul(decimal.NewFromFloat(weights.Demurrage))
	i := idle.Mul(decimal.NewFromFloat(weights.Idle))
	return f.Add(d).Add(i)
}
