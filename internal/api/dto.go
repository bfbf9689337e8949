// Package api exposes the depth engine over HTTP/JSON plus a streaming
// WebSocket fills feed. It is the optional network façade spec.md §6
// describes: every mutating handler holds the engine's single
// exclusive lock around its engine call, and a malformed-order panic is
// recovered into an HTTP 400 rather than taking down the process —
// the engine's own panic-on-malformed-input contract is unchanged,
// only the façade adds a recovery net around it.
package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mimir/internal/engine/depth"
	"mimir/internal/quote"
)

// toEngineDepthSnapshot converts the feed package's Depth shape into
// the engine's own local Depth shape. The two packages intentionally
// don't share a type: depth.Engine must not depend on the concrete
// feed implementation, so this conversion is the one place that
// couples them, at the façade boundary.
func toEngineDepthSnapshot(snapshot quote.DepthSnapshot) depth.DepthSnapshot {
	out := make(depth.DepthSnapshot, len(snapshot))
	for venue, bySymbol := range snapshot {
		converted := make(map[string]depth.Depth, len(bySymbol))
		for symbol, d := range bySymbol {
			bids := make([]depth.Level, len(d.Bids))
			for i, l := range d.Bids {
				bids[i] = depth.Level{Price: l.Price, Size: l.Size}
			}
			asks := make([]depth.Level, len(d.Asks))
			for i, l := range d.Asks {
				asks[i] = depth.Level{Price: l.Price, Size: l.Size}
			}
			converted[symbol] = depth.Depth{
				Date: d.Date, Symbol: d.Symbol, Venue: d.Venue, Bids: bids, Asks: asks,
			}
		}
		out[venue] = converted
	}
	return out
}

func toEngineTradeSnapshot(snapshot quote.TradeSnapshot) depth.TradeSnapshot {
	out := make(depth.TradeSnapshot, len(snapshot))
	for t, trades := range snapshot {
		converted := make([]depth.Trade, len(trades))
		for i, tr := range trades {
			side := depth.SideBid
			if tr.Side == quote.SideAsk {
				side = depth.SideAsk
			}
			converted[i] = depth.Trade{
				Symbol: tr.Symbol, Side: side, Price: tr.Price, Size: tr.Size, Time: tr.Time, Venue: tr.Venue,
			}
		}
		out[t] = converted
	}
	return out
}

// orderDTO is the wire shape for POST /insert_order. Price/Quantity
// are decimal strings over JSON rather than raw floats, so a client
// posting "102.10" isn't victim to binary float round-tripping; mimir
// converts decimal <-> float64 at this boundary only; the engine
// itself continues to compute in float64 exactly as spec'd.
type orderDTO struct {
	Type       string           `json:"type"`
	Symbol     string           `json:"symbol"`
	Venue      string           `json:"venue"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	OrderIDRef *uint64          `json:"order_id_ref,omitempty"`
}

func (d orderDTO) toEngineOrder() (depth.Order, error) {
	orderType, err := parseOrderType(d.Type)
	if err != nil {
		return depth.Order{}, err
	}

	order := depth.Order{
		Type:       orderType,
		Symbol:     d.Symbol,
		Venue:      d.Venue,
		Quantity:   d.Quantity.InexactFloat64(),
		OrderIDRef: d.OrderIDRef,
	}
	if d.Price != nil {
		p := d.Price.InexactFloat64()
		order.Price = &p
	}
	return order, nil
}

func parseOrderType(s string) (depth.OrderType, error) {
	switch s {
	case "market_buy":
		return depth.MarketBuy, nil
	case "market_sell":
		return depth.MarketSell, nil
	case "limit_buy":
		return depth.LimitBuy, nil
	case "limit_sell":
		return depth.LimitSell, nil
	case "cancel":
		return depth.Cancel, nil
	case "modify":
		return depth.Modify, nil
	default:
		return 0, fmt.Errorf("unknown order type %q", s)
	}
}

// resultDTO is the wire shape for a single OrderResult.
type resultDTO struct {
	Symbol     string           `json:"symbol"`
	Value      decimal.Decimal  `json:"value"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Date       int64            `json:"date"`
	Type       string           `json:"type"`
	OrderID    uint64           `json:"order_id"`
	OrderIDRef *uint64          `json:"order_id_ref,omitempty"`
	Venue      string           `json:"venue"`
}

func resultToDTO(r depth.OrderResult) resultDTO {
	return resultDTO{
		Symbol:     r.Symbol,
		Value:      decimal.NewFromFloat(r.Value),
		Quantity:   decimal.NewFromFloat(r.Quantity),
		Date:       r.Date,
		Type:       r.Type.String(),
		OrderID:    r.OrderID,
		OrderIDRef: r.OrderIDRef,
		Venue:      r.Venue,
	}
}

type restingOrderDTO struct {
	ID         uint64          `json:"id"`
	ReceivedAt int64           `json:"received_at"`
	Type       string          `json:"type"`
	Symbol     string          `json:"symbol"`
	Venue      string          `json:"venue"`
	Quantity   decimal.Decimal `json:"quantity"`
}

func restingToDTO(r depth.RestingOrder) restingOrderDTO {
	return restingOrderDTO{
		ID:         r.ID,
		ReceivedAt: r.ReceivedAt,
		Type:       r.Type.String(),
		Symbol:     r.Symbol,
		Venue:      r.Venue,
		Quantity:   decimal.NewFromFloat(r.Quantity),
	}
}

type tickResponse struct {
	HasNext        bool              `json:"has_next"`
	ExecutedTrades []resultDTO       `json:"executed_trades"`
	InsertedOrders []restingOrderDTO `json:"inserted_orders"`
}

type initResponse struct {
	Start     int64  `json:"start"`
	Frequency string `json:"frequency"`
}

type infoResponse struct {
	Version string `json:"version"`
	Dataset string `json:"dataset"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// insertAck is returned from POST /insert_order. requestID is a
// server-generated correlation id a client can log alongside its own
// submission record — distinct from the engine's own monotonic order
// id, which isn't assigned until the order is admitted on a later
// Tick. Grounded on the teacher's OrderUUID: a client-facing
// correlation id issued independently of the book's internal identity.
type insertAck struct {
	RequestID string `json:"request_id"`
}
