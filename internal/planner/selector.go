package planner

import "github.com/shopspring/decimal"

// SelectionReason records which rule picked a source stockyard, surfaced in
// plan explanations.
type SelectionReason string

const (
	SelectedPinned    SelectionReason = "pinned"
	SelectedDistance  SelectionReason = "distance"
	SelectedAbundance SelectionReason = "abundance"
	SelectedNone      SelectionReason = "none"
)

// SelectSource picks a source stockyard for an order against the ledger's
// current balances, in priority order:
//  1. a pinned stockyard on the order, taken as authoritative and not
//     checked against the ledger;
//  2. when the order has a destination with coordinates, the closest
//     stockyard that can fulfill the order's product/quantity;
//  3. otherwise, the stockyard with the largest on-hand balance of the
//     order's product that can fulfill it.
//
// Returns SelectedNone with an empty stockyard ID if nothing can fulfill the
// order.
func SelectSource(order Order, stockyards []Stockyard, ledger *Ledger) (string, SelectionReason) {
	if order.SourceStockyardID != "" {
		return order.SourceStockyardID, SelectedPinned
	}

	dest := OrderDestinationPoint(order)
	hasDestCoords := dest.Latitude != nil && dest.Longitude != nil

	var best string
	var bestDistance float64
	var bestQty decimal.Decimal
	found := false

	for _, sy := range stockyards {
		if !ledger.CanFulfill(sy.ID, order.ProductCode, order.QuantityTonnes) {
			continue
		}
		if hasDestCoords {
			d := DistanceKM(StockyardPoint(sy), dest)
			if !found || d < bestDistance {
				best, bestDistance, found = sy.ID, d, true
			}
			continue
		}
		qty := ledger.Have(sy.ID, order.ProductCode)
		if !found || qty.GreaterThan(bestQty) {
			best, bestQty, found = sy.ID, qty, true
		}
	}

	if !found {
		return "", SelectedNone
	}
	if hasDestCoords {
		return best, SelectedDistance
	}
	return best, SelectedAbundance
}
