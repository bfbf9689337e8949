package depth

import (
	"math"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/btree"
)

// Engine is the V2 depth matching engine. Orders submitted via
// InsertOrder are buffered by staging and only become resting (and
// eligible to match) on the tick *after* they arrive: execute_orders
// always runs before admission within a single Tick call, which is the
// entire lookahead-bias defense (spec'd in staging.go).
type Engine struct {
	resting  *btree.BTreeG[RestingOrder]
	staging  staging
	lastID   uint64
	latency  LatencyModel
	priority Priority
}

func newRestingTree() *btree.BTreeG[RestingOrder] {
	return btree.NewBTreeG(func(a, b RestingOrder) bool {
		return a.ID < b.ID
	})
}

// New constructs a V2 engine with no latency modeling and AlwaysFirst
// priority — the defaults named in spec.md §3.
func New() *Engine {
	return &Engine{
		resting:  newRestingTree(),
		latency:  NoLatency{},
		priority: AlwaysFirst,
	}
}

// WithLatency sets the engine's latency model and returns the engine
// for chaining, e.g. depth.New().WithLatency(depth.FixedPeriod{Period: 1}).
func (e *Engine) WithLatency(model LatencyModel) *Engine {
	e.latency = model
	return e
}

// WithPriority sets the engine's taker-volume-preemption policy.
func (e *Engine) WithPriority(p Priority) *Engine {
	e.priority = p
	return e
}

func validate(order Order) {
	switch order.Type {
	case LimitBuy, LimitSell:
		if order.Price == nil {
			panic("depth: limit order requires a price")
		}
	case Cancel, Modify:
		if order.OrderIDRef == nil {
			panic("depth: cancel/modify order requires OrderIDRef")
		}
	}
}

// InsertOrder buffers a client order; it has no effect on the resting
// book until the next Tick's admission phase. It panics immediately on
// a malformed order (contract violation by the caller), applying the
// same check as InsertOrderNow.
func (e *Engine) InsertOrder(order Order) {
	validate(order)
	e.staging.push(order)
}

// InsertOrderNow admits an order immediately, bypassing staging. This
// exists for direct engine-level testing (spec.md §6); production
// callers should use InsertOrder + Tick.
func (e *Engine) InsertOrderNow(order Order, now int64) RestingOrder {
	validate(order)
	return e.admit(order, now)
}

func (e *Engine) admit(order Order, now int64) RestingOrder {
	e.lastID++
	ro := RestingOrder{
		ID:         e.lastID,
		ReceivedAt: now,
		Type:       order.Type,
		Symbol:     order.Symbol,
		Venue:      order.Venue,
		Quantity:   order.Quantity,
		Price:      order.Price,
		OrderIDRef: order.OrderIDRef,
	}
	e.resting.Set(ro)

	log.Debug().
		Uint64("order_id", ro.ID).
		Str("symbol", ro.Symbol).
		Str("type", ro.Type.String()).
		Float64("quantity", ro.Quantity).
		Msg("depth: order admitted")

	return ro
}

func (e *Engine) admitStaged(now int64) []RestingOrder {
	buffered := e.staging.drain()
	admitted := make([]RestingOrder, 0, len(buffered))
	for _, order := range buffered {
		admitted = append(admitted, e.admit(order, now))
	}
	return admitted
}

// Tick runs one atomic matching pass against the given depth/trade
// snapshots, then admits every order buffered since the previous Tick.
// Admission always happens after matching, so newly admitted orders
// have no chance to be included in this tick's fills.
func (e *Engine) Tick(quotes DepthSnapshot, trades TradeSnapshot, now int64) ([]OrderResult, []RestingOrder) {
	results := e.executeOrders(quotes, trades, now)
	admitted := e.admitStaged(now)
	return results, admitted
}

type takerVolume struct {
	buyVol  float64
	sellVol float64
}

func aggregateTakerTrades(trades TradeSnapshot) map[string]takerVolume {
	agg := make(map[string]takerVolume)
	for _, prints := range trades {
		for _, t := range prints {
			key := priceKey(t.Price)
			v := agg[key]
			if t.Side == SideBid {
				v.sellVol += t.Size
			} else {
				v.buyVol += t.Size
			}
			agg[key] = v
		}
	}
	return agg
}

func (e *Engine) executeOrders(quotes DepthSnapshot, trades TradeSnapshot, now int64) []OrderResult {
	if e.resting.Len() == 0 {
		return nil
	}

	taker := aggregateTakerTrades(trades)

	old := e.resting
	e.resting = newRestingTree()

	var popped []RestingOrder
	old.Scan(func(item RestingOrder) bool {
		popped = append(popped, item)
		return true
	})

	working := make(map[uint64]RestingOrder, len(popped))
	ids := make([]uint64, 0, len(popped))
	var cancelsModifies []RestingOrder
	for _, o := range popped {
		if o.Type == Cancel || o.Type == Modify {
			cancelsModifies = append(cancelsModifies, o)
			continue
		}
		working[o.ID] = o
		ids = append(ids, o.ID)
	}

	var results []OrderResult
	results = append(results, e.applyCancelsAndModifies(cancelsModifies, working, now)...)

	filled := newFillAccumulator()
	for _, id := range ids {
		order, ok := working[id]
		if !ok {
			continue // removed by a cancel or a modify-by-exhaustion above
		}

		if !e.latency.eligible(now, order) {
			e.resting.Set(order)
			continue
		}

		bySymbol, ok := quotes[order.Venue]
		if !ok {
			e.resting.Set(order)
			continue
		}
		book, ok := bySymbol[order.Symbol]
		if !ok {
			e.resting.Set(order)
			continue
		}

		fills := fillWalk(book, order, filled, taker, e.priority)
		if len(fills) == 0 {
			e.resting.Set(order)
			continue
		}

		for _, f := range fills {
			log.Debug().
				Uint64("order_id", order.ID).
				Str("symbol", order.Symbol).
				Float64("price", f.Value/f.Quantity).
				Float64("quantity", f.Quantity).
				Msg("depth: order filled")
		}
		results = append(results, fills...)
	}

	return results
}

// applyCancelsAndModifies implements Phase B. Per the resolved
// REDESIGN FLAG (spec.md §9): a Modify that exhausts its target's
// quantity removes the referenced order (OrderIDRef), not the modify
// pseudo-order's own id.
func (e *Engine) applyCancelsAndModifies(cancelsModifies []RestingOrder, working map[uint64]RestingOrder, now int64) []OrderResult {
	var results []OrderResult
	for _, cm := range cancelsModifies {
		if cm.OrderIDRef == nil {
			continue
		}
		ref := *cm.OrderIDRef

		switch cm.Type {
		case Cancel:
			if _, ok := working[ref]; !ok {
				continue
			}
			delete(working, ref)
			results = append(results, OrderResult{
				Symbol:     cm.Symbol,
				Date:       now,
				Type:       CancelResult,
				OrderID:    cm.ID,
				OrderIDRef: cm.OrderIDRef,
				Venue:      cm.Venue,
			})

		case Modify:
			target, ok := working[ref]
			if !ok {
				continue
			}
			delta := cm.Quantity
			if delta > 0 {
				target.Quantity += delta
				working[ref] = target
			} else if qtyLeft := target.Quantity + delta; qtyLeft > 0 {
				target.Quantity = qtyLeft
				working[ref] = target
			} else {
				delete(working, ref)
			}
			results = append(results, OrderResult{
				Symbol:     cm.Symbol,
				Date:       now,
				Type:       ModifyResult,
				OrderID:    cm.ID,
				OrderIDRef: cm.OrderIDRef,
				Venue:      cm.Venue,
			})
		}
	}
	return results
}

// fillWalk implements the Phase C fill walk (spec.md §4.2.1): bid side
// first (AlwaysFirst taker-volume preemption at the touch, then
// crossing sells), then ask side (AlwaysFirst preemption, then
// crossing buys).
func fillWalk(book Depth, order RestingOrder, filled *fillAccumulator, taker map[string]takerVolume, priority Priority) []OrderResult {
	toFill := order.Quantity
	isBuy := order.Type.isBuy()

	var priceCheck float64
	switch order.Type {
	case LimitBuy, LimitSell:
		priceCheck = *order.Price
	case MarketBuy:
		priceCheck = math.MaxFloat64
	case MarketSell:
		priceCheck = -math.MaxFloat64
	}

	var trades []OrderResult

bids:
	for _, bid := range book.Bids {
		if priority == AlwaysFirst && isBuy && bid.Price == priceCheck {
			if tv, ok := taker[priceKey(priceCheck)]; ok {
				size := tv.sellVol - filled.filledAt(order.Symbol, bid.Price)
				if size == 0 {
					break bids
				}
				qty := math.Min(toFill, size)
				toFill -= qty
				trades = append(trades, OrderResult{
					Symbol: order.Symbol, Value: bid.Price * qty, Quantity: qty,
					Date: book.Date, Type: Buy, OrderID: order.ID, Venue: order.Venue,
				})
				filled.add(order.Symbol, bid.Price, qty)
			}
		}

		if !isBuy && bid.Price >= priceCheck {
			size := bid.Size - filled.filledAt(order.Symbol, bid.Price)
			if size == 0 {
				break bids
			}
			qty := math.Min(toFill, size)
			toFill -= qty
			trades = append(trades, OrderResult{
				Symbol: order.Symbol, Value: bid.Price * qty, Quantity: qty,
				Date: book.Date, Type: Sell, OrderID: order.ID, Venue: order.Venue,
			})
			filled.add(order.Symbol, bid.Price, qty)

			if toFill == 0 {
				break bids
			}
		}
	}

asks:
	for _, ask := range book.Asks {
		if priority == AlwaysFirst && !isBuy && ask.Price == priceCheck {
			if tv, ok := taker[priceKey(priceCheck)]; ok {
				size := tv.buyVol - filled.filledAt(order.Symbol, ask.Price)
				if size == 0 {
					break asks
				}
				qty := math.Min(toFill, size)
				toFill -= qty
				trades = append(trades, OrderResult{
					Symbol: order.Symbol, Value: ask.Price * qty, Quantity: qty,
					Date: book.Date, Type: Sell, OrderID: order.ID, Venue: order.Venue,
				})
				filled.add(order.Symbol, ask.Price, qty)
			}
		}

		if isBuy && ask.Price <= priceCheck {
			size := ask.Size - filled.filledAt(order.Symbol, ask.Price)
			if size == 0 {
				break asks
			}
			qty := math.Min(toFill, size)
			toFill -= qty
			trades = append(trades, OrderResult{
				Symbol: order.Symbol, Value: ask.Price * qty, Quantity: qty,
				Date: book.Date, Type: Buy, OrderID: order.ID, Venue: order.Venue,
			})
			filled.add(order.Symbol, ask.Price, qty)

			if toFill == 0 {
				break asks
			}
		}
	}

	return trades
}

// IsEmpty reports whether the book holds no resting orders.
func (e *Engine) IsEmpty() bool {
	return e.resting.Len() == 0
}

// TotalQtyBySymbol sums the quantity of every resting order for symbol.
func (e *Engine) TotalQtyBySymbol(symbol string) float64 {
	var total float64
	e.resting.Scan(func(item RestingOrder) bool {
		if item.Symbol == symbol {
			total += item.Quantity
		}
		return true
	})
	return total
}
