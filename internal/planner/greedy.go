package planner

import (
	"sort"

	"github.com/shopspring/decimal"
)

// rakeInProgress tracks a rake being filled during the greedy pack before it
// is finalized into a PlanRake.
type rakeInProgress struct {
	rake        Rake
	origin      Stockyard
	destination string // empty until the first order pins it, when multi-destination is disallowed
	orders      []AssignedOrder
	totalWeight decimal.Decimal
}

// GreedyPack implements the deterministic single-pass packer (C5): orders
// sorted by priority then due date, each assigned a source via SelectSource,
// then placed on the first open rake at that origin with room (and, unless
// multi-destination is allowed, a matching destination), or a fresh rake
// otherwise. Rakes that never reach MinRakeSize are dropped from the result
// and their orders are reported unfulfilled.
func GreedyPack(snap Snapshot, cfg Config) Result {
	orders := make([]Order, len(snap.Orders))
	copy(orders, snap.Orders)
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Priority != orders[j].Priority {
			return orders[i].Priority < orders[j].Priority
		}
		return orders[i].DueDate.Before(orders[j].DueDate)
	})

	stockyardByID := make(map[string]Stockyard, len(snap.Stockyards))
	for _, sy := range snap.Stockyards {
		stockyardByID[sy.ID] = sy
	}

	availableRakes := make([]Rake, 0, len(snap.Rakes))
	for _, r := range snap.Rakes {
		if r.Status == RakeStatusAvailable {
			availableRakes = append(availableRakes, r)
		}
	}

	ledger := NewLedger(snap.Stockyards)
	var inProgress []*rakeInProgress
	usedRakeIDs := make(map[string]bool)
	fulfilled := 0

	for _, order := range orders {
		sourceID, reason := SelectSource(order, snap.Stockyards, ledger)
		if reason == SelectedNone {
			continue
		}
		if !ledger.CanFulfill(sourceID, order.ProductCode, order.QuantityTonnes) {
			continue
		}
		origin := stockyardByID[sourceID]

		target := findOpenRake(inProgress, sourceID, order, cfg)
		if target == nil {
			rake := pickAvailableRake(availableRakes, usedRakeIDs, order.QuantityTonnes)
			if rake == nil {
				continue
			}
			usedRakeIDs[rake.ID] = true
			target = &rakeInProgress{
				rake:        *rake,
				origin:      origin,
				totalWeight: decimal.Zero,
			}
			inProgress = append(inProgress, target)
		}

		ledger.Reserve(sourceID, order.ProductCode, order.QuantityTonnes)
		if target.destination == "" {
			target.destination = order.Destination
		}
		target.orders = append(target.orders, AssignedOrder{
			OrderID:              order.ID,
			OrderNumber:          order.OrderNumber,
			ProductCode:          order.ProductCode,
			Quantity:             order.QuantityTonnes,
			Destination:          order.Destination,
			DestinationLatitude:  order.DestinationLatitude,
			DestinationLongitude: order.DestinationLongitude,
		})
		target.totalWeight = target.totalWeight.Add(order.QuantityTonnes)
		fulfilled++
	}

	return finalizeRakes(inProgress, cfg, len(orders), fulfilled, "greedy")
}

func findOpenRake(inProgress []*rakeInProgress, sourceID string, order Order, cfg Config) *rakeInProgress {
	for _, rip := range inProgress {
		if rip.origin.ID != sourceID {
			continue
		}
		if !cfg.AllowMultiDestination && rip.destination != "" && rip.destination != order.Destination {
			continue
		}
		remaining := rip.rake.TotalCapacityTonnes.Sub(rip.totalWeight)
		if remaining.LessThan(order.QuantityTonnes) {
			continue
		}
		return rip
	}
	return nil
}

func pickAvailableRake(rakes []Rake, used map[string]bool, minCapacity decimal.Decimal) *Rake {
	for i := range rakes {
		r := &rakes[i]
		if used[r.ID] {
			continue
		}
		if r.TotalCapacityTonnes.LessThan(minCapacity) {
			continue
		}
		return r
	}
	return nil
}

// finalizeRakes converts in-progress rakes into PlanRakes, dropping any that
// never reached the configured minimum rake size and totaling costs across
// the survivors.
func finalizeRakes(inProgress []*rakeInProgress, cfg Config, totalOrders, fulfilled int, algorithm string) Result {
	var rakes []PlanRake
	var totalFreight, totalDemurrage, totalIdle decimal.Decimal
	var totalWeight, totalCapacity decimal.Decimal
	droppedOrders := 0

	for _, rip := range inProgress {
		if rip.totalWeight.LessThan(cfg.MinRakeSize) {
			droppedOrders += len(rip.orders)
			continue
		}

		utilPct := Utilization(rip.totalWeight, rip.rake.TotalCapacityTonnes)
		origin := StockyardPoint(rip.origin)

		var freight decimal.Decimal
		for i, assigned := range rip.orders {
			dest := Point{Latitude: assigned.DestinationLatitude, Longitude: assigned.DestinationLongitude}
			dist := DistanceKM(origin, dest)
			cost := FreightCost(dist, assigned.Quantity, cfg.FreightRate)
			rip.orders[i].FreightCost = cost
			freight = freight.Add(cost)
		}
		demurrage := DemurrageCost(utilPct, cfg.DemurrageRate)
		idle := IdleCost(len(rip.orders), cfg.IdleCost)

		destinations := uniqueDestinations(rip.orders)

		rakes = append(rakes, PlanRake{
			RakeNumber:        rip.rake.RakeNumber,
			WagonTypeCode:     rip.rake.WagonTypeCode,
			NumWagons:         rip.rake.NumWagons,
			OriginStockyardID: rip.origin.ID,
			OriginCode:        rip.origin.Code,
			OriginName:        rip.origin.Name,
			Destinations:      destinations,
			OrdersAssigned:    rip.orders,
			TotalWeight:       rip.totalWeight,
			Capacity:          rip.rake.TotalCapacityTonnes,
			UtilizationPct:    utilPct,
			FreightCost:       freight,
			DemurrageCost:     demurrage,
			IdleCost:          idle,
		})

		totalFreight = totalFreight.Add(freight)
		totalDemurrage = totalDemurrage.Add(demurrage)
		totalIdle = totalIdle.Add(idle)
		totalWeight = totalWeight.Add(rip.totalWeight)
		totalCapacity = totalCapacity.Add(rip.rake.TotalCapacityTonnes)
	}

	total := ScalarizeCost(totalFreight, totalDemurrage, totalIdle, cfg.CostWeights)

	return Result{
		Rakes:           rakes,
		TotalCost:       total,
		FreightCost:     totalFreight,
		DemurrageCost:   totalDemurrage,
		IdleCost:        totalIdle,
		UtilizationPct:  Utilization(totalWeight, totalCapacity),
		OrdersFulfilled: fulfilled - droppedOrders,
		TotalOrders:     totalOrders,
		Algorithm:       algorithm,
	}
}

func uniqueDestinations(orders []AssignedOrder) []string {
	seen := make(map[string]bool, len(orders))
	var out []string
	for _, o := range orders {
		if seen[o.Destination] {
			continue
		}
		seen[o.Destination] = true
		out = append(out, o.Destination)
	}
	return out
}
