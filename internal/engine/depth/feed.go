package depth

// Level is a single price/size pair on one side of a Depth book.
type Level struct {
	Price float64
	Size  float64
}

// Depth is a full order-book snapshot for one (venue, symbol) at one
// timestamp: bids descending by price, asks ascending by price. The
// engine borrows this read-only during Tick and never retains it.
type Depth struct {
	Date   int64
	Symbol string
	Venue  string
	Bids   []Level
	Asks   []Level
}

// Side identifies which resting side an aggressor print hit.
type Side int

const (
	SideBid Side = iota
	SideAsk
)

// Trade is a taker (aggressor) print from the data feed.
type Trade struct {
	Symbol string
	Side   Side
	Price  float64
	Size   float64
	Time   int64
	Venue  string
}

// DepthSnapshot is the venue -> symbol -> Depth view handed to Tick.
type DepthSnapshot map[string]map[string]Depth

// TradeSnapshot is the taker-print feed handed to Tick, keyed by
// timestamp. Phase A aggregates every entry present in the map handed
// over, regardless of its key — callers are responsible for windowing
// this to the tick they mean to expose.
type TradeSnapshot map[int64][]Trade
