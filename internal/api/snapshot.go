package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/railops/rake-planner/internal/db"
	"github.com/railops/rake-planner/internal/planner"
	"github.com/shopspring/decimal"
)

type assignedOrderView struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	ProductCode string `json:"productCode"`
	Quantity    string `json:"quantity"`
	Destination string `json:"destination"`
	FreightCost string `json:"freightCost"`
}

func marshalAssignedOrders(orders []planner.AssignedOrder) (json.RawMessage, error) {
	views := make([]assignedOrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, assignedOrderView{
			OrderID:     o.OrderID,
			OrderNumber: o.OrderNumber,
			ProductCode: o.ProductCode,
			Quantity:    o.Quantity.StringFixed(2),
			Destination: o.Destination,
			FreightCost: o.FreightCost.StringFixed(2),
		})
	}
	return json.Marshal(views)
}

// LoadSnapshot assembles the immutable planning input from the current
// reference-data tables: pending orders, stockyards with their on-hand
// inventory, and available rakes. Exported so the offline planning CLI
// (cmd/plan) can build the same input the HTTP job runner uses.
func LoadSnapshot(ctx context.Context, queries *db.Queries) (planner.Snapshot, error) {
	dbOrders, err := queries.ListPendingOrders(ctx)
	if err != nil {
		return planner.Snapshot{}, fmt.Errorf("load orders: %w", err)
	}
	dbYards, err := queries.ListStockyards(ctx)
	if err != nil {
		return planner.Snapshot{}, fmt.Errorf("load stockyards: %w", err)
	}
	dbInventory, err := queries.ListInventory(ctx)
	if err != nil {
		return planner.Snapshot{}, fmt.Errorf("load inventory: %w", err)
	}
	dbRakes, err := queries.ListAvailableRakes(ctx)
	if err != nil {
		return planner.Snapshot{}, fmt.Errorf("load rakes: %w", err)
	}

	inventoryByYard := make(map[string]map[string]decimal.Decimal)
	for _, inv := range dbInventory {
		qty, err := decimal.NewFromString(inv.QuantityTonnes)
		if err != nil {
			return planner.Snapshot{}, fmt.Errorf("parse inventory quantity for stockyard %s: %w", inv.StockyardID, err)
		}
		if inventoryByYard[inv.StockyardID] == nil {
			inventoryByYard[inv.StockyardID] = make(map[string]decimal.Decimal)
		}
		inventoryByYard[inv.StockyardID][inv.ProductCode] = qty
	}

	orders := make([]planner.Order, 0, len(dbOrders))
	for _, o := range dbOrders {
		qty, err := decimal.NewFromString(o.QuantityTonnes)
		if err != nil {
			return planner.Snapshot{}, fmt.Errorf("parse order %s quantity: %w", o.OrderNumber, err)
		}
		order := planner.Order{
			ID:             o.ID,
			OrderNumber:    o.OrderNumber,
			ProductCode:    o.ProductCode,
			QuantityTonnes: qty,
			Destination:    o.Destination,
			Priority:       o.Priority,
			DueDate:        o.DueDate,
			Status:         o.Status,
		}
		if o.SourceStockyardID.Valid {
			order.SourceStockyardID = o.SourceStockyardID.String
		}
		if o.DestinationLatitude.Valid {
			lat := o.DestinationLatitude.Float64
			order.DestinationLatitude = &lat
		}
		if o.DestinationLongitude.Valid {
			lon := o.DestinationLongitude.Float64
			order.DestinationLongitude = &lon
		}
		if o.SLAHours.Valid {
			order.SLAHours = o.SLAHours.Float64
		}
		orders = append(orders, order)
	}

	stockyards := make([]planner.Stockyard, 0, len(dbYards))
	for _, y := range dbYards {
		capacity, err := decimal.NewFromString(y.CapacityTonnes)
		if err != nil {
			return planner.Snapshot{}, fmt.Errorf("parse stockyard %s capacity: %w", y.Code, err)
		}
		yard := planner.Stockyard{
			ID:               y.ID,
			Code:             y.Code,
			Name:             y.Name,
			Location:         y.Location,
			CapacityTonnes:   capacity,
			CurrentInventory: inventoryByYard[y.ID],
		}
		if y.Latitude.Valid {
			lat := y.Latitude.Float64
			yard.Latitude = &lat
		}
		if y.Longitude.Valid {
			lon := y.Longitude.Float64
			yard.Longitude = &lon
		}
		if yard.CurrentInventory == nil {
			yard.CurrentInventory = make(map[string]decimal.Decimal)
		}
		stockyards = append(stockyards, yard)
	}

	rakes := make([]planner.Rake, 0, len(dbRakes))
	for _, r := range dbRakes {
		capacity, err := decimal.NewFromString(r.TotalCapacityTonnes)
		if err != nil {
			return planner.Snapshot{}, fmt.Errorf("parse rake %s capacity: %w", r.RakeNumber, err)
		}
		rakes = append(rakes, planner.Rake{
			ID:                  r.ID,
			RakeNumber:          r.RakeNumber,
			WagonTypeCode:       r.WagonTypeCode,
			NumWagons:           r.NumWagons,
			TotalCapacityTonnes: capacity,
			Status:              r.Status,
			CurrentLocation:     r.CurrentLocation,
		})
	}

	return planner.Snapshot{Orders: orders, Stockyards: stockyards, Rakes: rakes}, nil
}

// PersistResult turns one terminal planning Result into a Plan + PlanRake
// row set, atomically. Exported for reuse by cmd/plan.
func PersistResult(ctx context.Context, queries *db.Queries, planID, jobID string, result planner.Result) error {
	rakes := make([]db.CreatePlanRakeParams, 0, len(result.Rakes))
	for _, r := range result.Rakes {
		ordersJSON, err := marshalAssignedOrders(r.OrdersAssigned)
		if err != nil {
			return err
		}
		rakes = append(rakes, db.CreatePlanRakeParams{
			RakeNumber:     r.RakeNumber,
			OriginCode:     r.OriginCode,
			Destinations:   r.Destinations,
			OrdersJSON:     ordersJSON,
			TotalWeight:    r.TotalWeight.StringFixed(2),
			Capacity:       r.Capacity.StringFixed(2),
			UtilizationPct: r.UtilizationPct,
			FreightCost:    r.FreightCost.StringFixed(2),
			DemurrageCost:  r.DemurrageCost.StringFixed(2),
			IdleCost:       r.IdleCost.StringFixed(2),
		})
	}

	return queries.CreatePlan(ctx, db.CreatePlanParams{
		PlanID:         planID,
		JobID:          jobID,
		Algorithm:      result.Algorithm,
		TotalCost:      result.TotalCost.StringFixed(2),
		FreightCost:    result.FreightCost.StringFixed(2),
		DemurrageCost:  result.DemurrageCost.StringFixed(2),
		IdleCost:       result.IdleCost.StringFixed(2),
		UtilizationPct: result.UtilizationPct,
		Rakes:          rakes,
	})
}
