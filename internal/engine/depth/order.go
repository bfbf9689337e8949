// Package depth implements the V2 matching engine: a full-depth order
// book that fills market/limit orders against multi-level liquidity
// plus taker-trade volume, supports cancel/modify, tracks per-tick
// fill accumulation, and honors a configurable latency model. It is the
// harder of the two engines: staging prevents lookahead bias, the fill
// walk prevents double-consuming displayed size, and the latency
// filter models wire delay between order admission and eligibility.
package depth

// OrderType enumerates the order shapes V2 accepts.
type OrderType int

const (
	MarketBuy OrderType = iota
	MarketSell
	LimitBuy
	LimitSell
	Cancel
	Modify
)

func (t OrderType) String() string {
	switch t {
	case MarketBuy:
		return "MarketBuy"
	case MarketSell:
		return "MarketSell"
	case LimitBuy:
		return "LimitBuy"
	case LimitSell:
		return "LimitSell"
	case Cancel:
		return "Cancel"
	case Modify:
		return "Modify"
	default:
		return "Unknown"
	}
}

func (t OrderType) isBuy() bool {
	return t == MarketBuy || t == LimitBuy
}

// ResultType classifies an OrderResult.
type ResultType int

const (
	Buy ResultType = iota
	Sell
	CancelResult
	ModifyResult
)

func (t ResultType) String() string {
	switch t {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	case CancelResult:
		return "Cancel"
	case ModifyResult:
		return "Modify"
	default:
		return "Unknown"
	}
}

// Order is a client-submitted order, buffered by Staging until the
// next tick's admission phase. Price is required for
// LimitBuy/LimitSell; for Modify, Quantity carries the signed quantity
// delta. OrderIDRef is required for Cancel/Modify. Submitting a limit
// order with no price, or a Cancel/Modify with no OrderIDRef, is a
// contract violation and InsertOrder/InsertOrderNow panic on it.
type Order struct {
	Type       OrderType
	Symbol     string
	Venue      string
	Quantity   float64
	Price      *float64
	OrderIDRef *uint64
}

// RestingOrder is an admitted Order: it carries the id assigned on
// admission and the timestamp it was received, which the latency
// filter compares against `now`.
type RestingOrder struct {
	ID         uint64
	ReceivedAt int64
	Type       OrderType
	Symbol     string
	Venue      string
	Quantity   float64
	Price      *float64
	OrderIDRef *uint64
}

// OrderResult is one emission from a tick: a fill, a cancel
// confirmation, or a modify confirmation.
type OrderResult struct {
	Symbol     string
	Value      float64
	Quantity   float64
	Date       int64
	Type       ResultType
	OrderID    uint64
	OrderIDRef *uint64
	Venue      string
}

func (r OrderResult) String() string {
	return "OrderResult<" + r.Type.String() + " " + r.Symbol + ">"
}

// Priority selects whether resting orders at the touch may claim
// taker-trade volume before needing to cross the spread.
type Priority int

const (
	// AlwaysFirst lets a resting order at the touch claim aggressor
	// volume before walking/crossing the book. This is the default: it
	// models a passive order being filled by genuine counter-aggression
	// before it ever needs to pay the spread.
	AlwaysFirst Priority = iota
	// TradeThrough skips taker-volume preemption entirely.
	TradeThrough
)
