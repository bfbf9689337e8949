package topbook

import (
	"github.com/rs/zerolog/log"
)

// Quote is the minimal capability V1 needs from a data feed: a best
// bid/ask pair for one symbol at one timestamp. The engine never owns
// quote storage — it borrows this at execution time only.
type Quote struct {
	Bid float64
	Ask float64
}

// QuoteSource is a read-only lookup from (now, symbol) to a Quote. A
// missing quote is not an error — the order stays resting.
type QuoteSource interface {
	GetQuote(now int64, symbol string) (Quote, bool)
}

// Engine is the V1 top-of-book matching engine. It admits orders
// immediately on InsertOrder (no staging delay — V1 has no lookahead
// concern to guard against, because execution always looks up the
// quote at the current tick's `now`, never an order's own submission
// time) and fills them all-or-nothing against the best bid/ask.
type Engine struct {
	resting map[uint64]Order
	order   []uint64 // ascending id order, maintained on insert
	lastID  uint64
}

// New constructs an empty V1 engine.
func New() *Engine {
	return &Engine{resting: make(map[uint64]Order)}
}

// InsertOrder admits an order immediately and returns its assigned id.
// It panics if a limit/stop order carries no price — a malformed order
// is a contract violation by the caller, not a data-gap condition.
func (e *Engine) InsertOrder(order Order) uint64 {
	switch order.Type {
	case LimitBuy, LimitSell, StopBuy, StopSell:
		if order.Price == nil {
			panic("topbook: limit/stop order requires a price")
		}
	}

	e.lastID++
	id := e.lastID
	e.resting[id] = order
	e.order = append(e.order, id)

	log.Debug().
		Uint64("order_id", id).
		Str("symbol", order.Symbol).
		Str("type", order.Type.String()).
		Float64("quantity", order.Quantity).
		Msg("topbook: order admitted")

	return id
}

// Execute evaluates every resting order against the quotes available
// at `now`, fills triggered orders in full, and returns the results in
// ascending order-id order. Triggered orders are removed from the
// book; untriggered orders (including those whose symbol has no quote)
// remain resting.
func (e *Engine) Execute(quotes QuoteSource, now int64) []OrderResult {
	var results []OrderResult
	var stillResting []uint64

	for _, id := range e.order {
		order, ok := e.resting[id]
		if !ok {
			continue // already removed (defensive; ids are only ever added once)
		}

		quote, ok := quotes.GetQuote(now, order.Symbol)
		if !ok {
			stillResting = append(stillResting, id)
			continue
		}

		price, triggered, resultType := evaluate(order, quote)
		if !triggered {
			stillResting = append(stillResting, id)
			continue
		}

		delete(e.resting, id)
		result := OrderResult{
			Symbol:   order.Symbol,
			Value:    price * order.Quantity,
			Quantity: order.Quantity,
			Date:     now,
			Type:     resultType,
			OrderID:  id,
		}
		results = append(results, result)

		log.Debug().
			Uint64("order_id", id).
			Str("symbol", order.Symbol).
			Float64("price", price).
			Float64("quantity", order.Quantity).
			Msg("topbook: order filled")
	}

	e.order = stillResting
	return results
}

// evaluate applies the V1 trigger table (spec.md §4.1) to a single
// order against a quote, returning the execution price and whether the
// order fires.
func evaluate(order Order, quote Quote) (price float64, triggered bool, resultType ResultType) {
	switch order.Type {
	case MarketBuy:
		return quote.Ask, true, Buy
	case MarketSell:
		return quote.Bid, true, Sell
	case LimitBuy:
		if *order.Price >= quote.Ask {
			return quote.Ask, true, Buy
		}
	case LimitSell:
		if *order.Price <= quote.Bid {
			return quote.Bid, true, Sell
		}
	case StopBuy:
		if *order.Price <= quote.Ask {
			return quote.Ask, true, Buy
		}
	case StopSell:
		if *order.Price >= quote.Bid {
			return quote.Bid, true, Sell
		}
	}
	return 0, false, 0
}

// IsEmpty reports whether the book holds no resting orders.
func (e *Engine) IsEmpty() bool {
	return len(e.order) == 0
}

// TotalQtyBySymbol sums the quantity of every resting order for symbol.
func (e *Engine) TotalQtyBySymbol(symbol string) float64 {
	var total float64
	for _, id := range e.order {
		order, ok := e.resting[id]
		if !ok {
			continue
		}
		if order.Symbol == symbol {
			total += order.Quantity
		}
	}
	return total
}
