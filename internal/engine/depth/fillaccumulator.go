package depth

import "github.com/shopspring/decimal"

// fillAccumulator is the per-tick scratch structure recording how much
// displayed size has already been consumed at each (symbol, price)
// pair within the current matching pass, so that a second order in the
// same tick sees only what's left at that level. It is allocated fresh
// at the start of each tick's matching phase and discarded after.
//
// Price keys are textual because a float64 can't be a map key in the
// sense the original design note means (NaN aside, bit-for-bit
// equality on floats is too brittle to build a liquidity ledger on).
// mimir normalizes through decimal.NewFromFloat before formatting the
// key, so two float64 values that differ only in trailing binary noise
// still collide on the same accumulator entry.
type fillAccumulator struct {
	filled map[string]map[string]float64
}

func newFillAccumulator() *fillAccumulator {
	return &fillAccumulator{filled: make(map[string]map[string]float64)}
}

func priceKey(price float64) string {
	return decimal.NewFromFloat(price).String()
}

// filledAt returns how much size has already been claimed at
// (symbol, price) during this tick.
func (f *fillAccumulator) filledAt(symbol string, price float64) float64 {
	bySymbol, ok := f.filled[symbol]
	if !ok {
		return 0
	}
	return bySymbol[priceKey(price)]
}

// add records an additional claim of size at (symbol, price).
func (f *fillAccumulator) add(symbol string, price, size float64) {
	bySymbol, ok := f.filled[symbol]
	if !ok {
		bySymbol = make(map[string]float64)
		f.filled[symbol] = bySymbol
	}
	bySymbol[priceKey(price)] += size
}
