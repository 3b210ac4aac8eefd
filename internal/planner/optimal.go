package planner

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// optimalProxyWeight (K) is the per-tonne weight used by the simplified
// assignment objective below, matching the reference solver's proxy
// objective rather than full origin/destination cost awareness.
const optimalProxyWeight = 500

// optimalOrderScale and optimalRakeScale are the scale guard: problems
// larger than this bypass the solver entirely and fall back to the greedy
// packer, since the hand-rolled search below is not fit for large instances.
const (
	optimalOrderScale = 50
	optimalRakeScale  = 20
)

// optimalSolveBudget bounds how long the assignment search may run before
// it gives up and falls back to greedy.
const optimalSolveBudget = 30 * time.Second

// OptimalPack implements the C6 packer: an order x rake assignment built by
// a single best-fit pass and costed with a proxy objective (quantity * K per
// assignment), respecting one-rake-per-order and rake-capacity constraints.
// It does not reason about origin/destination distance or demurrage/idle —
// those are zeroed for rakes produced by this path, matching the simplified
// objective. Large instances or a blown time budget fall back to GreedyPack,
// with the algorithm tag recording which path actually produced the result;
// orders that fit no rake are left unassigned rather than triggering a
// fallback.
func OptimalPack(snap Snapshot, cfg Config) Result {
	if len(snap.Orders) > optimalOrderScale || len(snap.Rakes) > optimalRakeScale {
		res := GreedyPack(snap, cfg)
		res.Algorithm = "optimal (fallback: greedy, scale guard)"
		return res
	}

	ctx, cancel := context.WithTimeout(context.Background(), optimalSolveBudget)
	defer cancel()

	assignment, ok := solveAssignment(ctx, snap, cfg)
	if !ok {
		res := GreedyPack(snap, cfg)
		res.Algorithm = "optimal (fallback: greedy, infeasible/timeout)"
		return res
	}

	res := buildOptimalResult(snap, cfg, assignment)
	res.Algorithm = "optimal"
	return res
}

// solveAssignment runs one bounded best-fit-decreasing pass: orders are taken
// largest first, and each is placed on the available rake with the least
// remaining capacity that still fits it. No swap or improvement phase
// follows the pass. The iteration/time budget is enforced via a rate limiter
// standing in for the solver's internal step throttle; it returns false only
// when that budget runs out.
func solveAssignment(ctx context.Context, snap Snapshot, cfg Config) (map[string]string, bool) {
	stockyardByID := make(map[string]Stockyard, len(snap.Stockyards))
	for _, sy := range snap.Stockyards {
		stockyardByID[sy.ID] = sy
	}
	ledger := NewLedger(snap.Stockyards)

	rakes := make([]Rake, 0, len(snap.Rakes))
	for _, r := range snap.Rakes {
		if r.Status == RakeStatusAvailable {
			rakes = append(rakes, r)
		}
	}
	if len(rakes) == 0 {
		return map[string]string{}, true
	}

	orders := make([]Order, len(snap.Orders))
	copy(orders, snap.Orders)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].QuantityTonnes.GreaterThan(orders[j].QuantityTonnes)
	})

	remaining := make(map[string]decimal.Decimal, len(rakes))
	for _, r := range rakes {
		remaining[r.ID] = r.TotalCapacityTonnes
	}

	limiter := rate.NewLimiter(rate.Limit(1000), 1)
	assignment := make(map[string]string, len(orders))

	for _, order := range orders {
		select {
		case <-ctx.Done():
			return nil, false
		default:
		}
		if err := limiter.Wait(ctx); err != nil {
			return nil, false
		}

		sourceID, reason := SelectSource(order, snap.Stockyards, ledger)
		if reason == SelectedNone {
			continue
		}
		if !ledger.CanFulfill(sourceID, order.ProductCode, order.QuantityTonnes) {
			continue
		}

		bestRake := ""
		var bestRemaining decimal.Decimal
		for _, r := range rakes {
			rem := remaining[r.ID]
			if rem.LessThan(order.QuantityTonnes) {
				continue
			}
			if bestRake == "" || rem.LessThan(bestRemaining) {
				bestRake, bestRemaining = r.ID, rem
			}
		}
		if bestRake == "" {
			continue
		}

		ledger.Reserve(sourceID, order.ProductCode, order.QuantityTonnes)
		remaining[bestRake] = remaining[bestRake].Sub(order.QuantityTonnes)
		assignment[order.ID] = bestRake + "|" + sourceID
	}

	return assignment, true
}

// buildOptimalResult converts the assignment map (orderID -> "rakeID|stockyardID")
// into a Result with the proxy objective reported as cost and the
// distance/demurrage/idle components zeroed.
func buildOptimalResult(snap Snapshot, cfg Config, assignment map[string]string) Result {
	rakeByID := make(map[string]Rake, len(snap.Rakes))
	for _, r := range snap.Rakes {
		rakeByID[r.ID] = r
	}
	stockyardByID := make(map[string]Stockyard, len(snap.Stockyards))
	for _, sy := range snap.Stockyards {
		stockyardByID[sy.ID] = sy
	}
	orderByID := make(map[string]Order, len(snap.Orders))
	for _, o := range snap.Orders {
		orderByID[o.ID] = o
	}

	type bucket struct {
		rakeID  string
		sourceID string
		orders  []AssignedOrder
		weight  decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	var order []string

	for orderID, key := range assignment {
		rakeID, sourceID := splitAssignmentKey(key)
		b, ok := buckets[rakeID]
		if !ok {
			b = &bucket{rakeID: rakeID, sourceID: sourceID, weight: decimal.Zero}
			buckets[rakeID] = b
			order = append(order, rakeID)
		}
		o := orderByID[orderID]
		b.orders = append(b.orders, AssignedOrder{
			OrderID:              o.ID,
			OrderNumber:          o.OrderNumber,
			ProductCode:          o.ProductCode,
			Quantity:             o.QuantityTonnes,
			Destination:          o.Destination,
			DestinationLatitude:  o.DestinationLatitude,
			DestinationLongitude: o.DestinationLongitude,
		})
		b.weight = b.weight.Add(o.QuantityTonnes)
	}
	sort.Strings(order)

	var rakes []PlanRake
	var totalWeight, totalCapacity, totalProxy decimal.Decimal
	for _, rakeID := range order {
		b := buckets[rakeID]
		if b.weight.LessThan(cfg.MinRakeSize) {
			continue
		}
		rk := rakeByID[rakeID]
		sy := stockyardByID[b.sourceID]
		utilPct := Utilization(b.weight, rk.TotalCapacityTonnes)
		proxy := b.weight.Mul(decimal.NewFromInt(optimalProxyWeight)).Mul(decimal.NewFromFloat(cfg.FreightRate))

		rakes = append(rakes, PlanRake{
			RakeNumber:        rk.RakeNumber,
			WagonTypeCode:     rk.WagonTypeCode,
			NumWagons:         rk.NumWagons,
			OriginStockyardID: sy.ID,
			OriginCode:        sy.Code,
			OriginName:        sy.Name,
			Destinations:      uniqueDestinations(b.orders),
			OrdersAssigned:    b.orders,
			TotalWeight:       b.weight,
			Capacity:          rk.TotalCapacityTonnes,
			UtilizationPct:    utilPct,
			FreightCost:       proxy,
			DemurrageCost:     decimal.Zero,
			IdleCost:          decimal.Zero,
		})
		totalWeight = totalWeight.Add(b.weight)
		totalCapacity = totalCapacity.Add(rk.TotalCapacityTonnes)
		totalProxy = totalProxy.Add(proxy)
	}

	fulfilled := 0
	for _, r := range rakes {
		fulfilled += len(r.OrdersAssigned)
	}

	return Result{
		Rakes:           rakes,
		TotalCost:       totalProxy,
		FreightCost:     totalProxy,
		DemurrageCost:   decimal.Zero,
		IdleCost:        decimal.Zero,
		UtilizationPct:  Utilization(totalWeight, totalCapacity),
		OrdersFulfilled: fulfilled,
		TotalOrders:     len(snap.Orders),
	}
}

func splitAssignmentKey(key string) (rakeID, sourceID string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
