// Package planner implements the rake formation planning engine: the
// distance oracle, cost model, inventory ledger, source selector, the
// greedy and optimal packers, the strategy dispatcher, the job runner state
// machine, and the commit executor.
package planner

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a pending transport order snapshotted from the reference store.
type Order struct {
	ID                   string
	OrderNumber          string
	ProductCode          string
	QuantityTonnes       decimal.Decimal
	SourceStockyardID    string // empty if unpinned
	Destination          string
	DestinationLatitude  *float64
	DestinationLongitude *float64
	Priority             int // 1 (highest) .. 5 (lowest)
	DueDate              time.Time
	SLAHours             float64
	Status               string
}

const (
	OrderStatusPending   = "pending"
	OrderStatusAssigned  = "assigned"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCancelled = "cancelled"
)

// Stockyard holds bulk-material inventory snapshotted for one planning run.
type Stockyard struct {
	ID               string
	Code             string
	Name             string
	Location         string
	Latitude         *float64
	Longitude        *float64
	CapacityTonnes   decimal.Decimal
	CurrentInventory map[string]decimal.Decimal // product code -> tonnes on hand
}

// Rake is a candidate train unit.
type Rake struct {
	ID                  string
	RakeNumber          string
	WagonTypeCode       string
	NumWagons           int
	TotalCapacityTonnes decimal.Decimal
	Status              string
	CurrentLocation     string
}

const (
	RakeStatusAvailable  = "available"
	RakeStatusAssigned   = "assigned"
	RakeStatusInTransit  = "in_transit"
	RakeStatusMaintenance = "maintenance"
)

// Point is a location used by the distance oracle. Either field may be nil.
type Point struct {
	Latitude  *float64
	Longitude *float64
}

// CostWeights scalarizes the three cost components into a single total.
type CostWeights struct {
	Freight   float64
	Demurrage float64
	Idle      float64
}

// Config is the planner configuration accompanying a planning job (§6).
type Config struct {
	Mode                   string // "greedy" | "optimal" | "hybrid"
	AllowMultiDestination  bool
	MinRakeSize            decimal.Decimal
	CostWeights            CostWeights
	FreightRate            float64
	DemurrageRate          float64
	IdleCost               float64
}

// DefaultConfig returns the configuration defaults from spec §6.
func DefaultConfig() Config {
	return Config{
		Mode:                  "greedy",
		AllowMultiDestination: false,
		MinRakeSize:           decimal.NewFromInt(1000),
		CostWeights: CostWeights{
			Freight:   1.0,
			Demurrage: 0.5,
			Idle:      0.3,
		},
		FreightRate:   2.5,
		DemurrageRate: 500,
		IdleCost:      100,
	}
}

// AssignedOrder is one order packed into a PlanRake.
type AssignedOrder struct {
	OrderID              string
	OrderNumber          string
	ProductCode          string
	Quantity             decimal.Decimal
	Destination          string
	DestinationLatitude  *float64
	DestinationLongitude *float64
	FreightCost          decimal.Decimal
}

// PlanRake is one rake's packed assignment within a plan result.
type PlanRake struct {
	RakeNumber        string
	WagonTypeCode     string
	NumWagons         int
	OriginStockyardID string // empty if unset
	OriginCode        string
	OriginName        string
	Destinations      []string
	OrdersAssigned    []AssignedOrder
	TotalWeight       decimal.Decimal
	Capacity          decimal.Decimal
	UtilizationPct    float64
	FreightCost       decimal.Decimal
	DemurrageCost     decimal.Decimal
	IdleCost          decimal.Decimal
}

// Result is the output of a planning strategy run (C5/C6/C7).
type Result struct {
	Rakes            []PlanRake
	TotalCost        decimal.Decimal
	FreightCost      decimal.Decimal
	DemurrageCost    decimal.Decimal
	IdleCost         decimal.Decimal
	UtilizationPct   float64
	OrdersFulfilled  int
	TotalOrders      int
	Algorithm        string
}

// Snapshot is the immutable input bundle a planning run operates over.
type Snapshot struct {
	Orders     []Order
	Stockyards []Stockyard
	Rakes      []Rake
}
