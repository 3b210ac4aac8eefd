package planner

import "github.com/shopspring/decimal"

// Ledger is a per-run, single-owned, mutable view of stockyard inventory.
// It is never shared across concurrent planning runs: each job snapshots its
// own copy and reserves against it as it packs, with no release operation —
// a run either commits its reservations or discards the whole ledger.
type Ledger struct {
	have map[string]map[string]decimal.Decimal // stockyardID -> productCode -> tonnes
}

// NewLedger builds a ledger from a snapshot of stockyards.
func NewLedger(stockyards []Stockyard) *Ledger {
	have := make(map[string]map[string]decimal.Decimal, len(stockyards))
	for _, sy := range stockyards {
		byProduct := make(map[string]decimal.Decimal, len(sy.CurrentInventory))
		for product, qty := range sy.CurrentInventory {
			byProduct[product] = qty
		}
		have[sy.ID] = byProduct
	}
	return &Ledger{have: have}
}

// Have returns the current on-hand quantity for a stockyard/product pair.
func (l *Ledger) Have(stockyardID, productCode string) decimal.Decimal {
	byProduct, ok := l.have[stockyardID]
	if !ok {
		return decimal.Zero
	}
	qty, ok := byProduct[productCode]
	if !ok {
		return decimal.Zero
	}
	return qty
}

// Reserve deducts qty from the stockyard/product balance. It is the caller's
// responsibility to have already checked Have(...) >= qty via
// CanFulfill; Reserve itself clamps at zero rather than going negative.
func (l *Ledger) Reserve(stockyardID, productCode string, qty decimal.Decimal) {
	byProduct, ok := l.have[stockyardID]
	if !ok {
		return
	}
	remaining := byProduct[productCode].Sub(qty)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	byProduct[productCode] = remaining
}

// CanFulfill reports whether the stockyard currently has at least qty of the
// given product.
func (l *Ledger) CanFulfill(stockyardID, productCode string, qty decimal.Decimal) bool {
	return l.Have(stockyardID, productCode).GreaterThanOrEqual(qty)
}
