// Package topbook implements the V1 matching engine: a top-of-book
// order book that fills market/limit/stop orders all-or-nothing against
// a single best-bid/best-ask quote per symbol. It assumes infinite
// displayed liquidity at the touch and is intended for coarse backtests
// that only need to know whether and when an order would have crossed.
package topbook

// OrderType enumerates the order shapes V1 accepts. Cancel and Modify
// are not supported here; that's V2 territory.
type OrderType int

const (
	MarketBuy OrderType = iota
	MarketSell
	LimitBuy
	LimitSell
	StopBuy
	StopSell
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
	case StopBuy:
		return "StopBuy"
	case StopSell:
		return "StopSell"
	default:
		return "Unknown"
	}
}

// ResultType classifies an OrderResult. V1 only ever emits Buy/Sell.
type ResultType int

const (
	Buy ResultType = iota
	Sell
)

func (t ResultType) String() string {
	if t == Buy {
		return "Buy"
	}
	return "Sell"
}

// Order is a client-submitted order. Price is required for
// LimitBuy/LimitSell/StopBuy/StopSell and ignored otherwise; submitting
// a limit/stop order with no price is a contract violation and the
// engine panics (see Engine.InsertOrder).
type Order struct {
	Type     OrderType
	Symbol   string
	Quantity float64
	Price    *float64
}

// OrderResult is the record of a single execution produced by the
// engine, one per triggered order (V1 fills are always all-or-nothing).
type OrderResult struct {
	Symbol   string
	Value    float64
	Quantity float64
	Date     int64
	Type     ResultType
	OrderID  uint64
}

func (r OrderResult) String() string {
	return "OrderResult<" + r.Type.String() + " " + r.Symbol + ">"
}
