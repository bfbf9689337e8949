package depth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func price(p float64) *float64 { return &p }
func ref(id uint64) *uint64    { return &id }

func TestWalkThroughLevels(t *testing.T) {
	e := New()
	admitted := e.InsertOrderNow(Order{Type: LimitBuy, Symbol: "ABC", Venue: "exchange", Quantity: 120, Price: price(103)}, 100)

	quotes := DepthSnapshot{"exchange": {"ABC": Depth{
		Date: 100, Symbol: "ABC", Venue: "exchange",
		Asks: []Level{{Price: 102, Size: 80}, {Price: 103, Size: 20}},
	}}}
	trades := TradeSnapshot{100: {{Symbol: "ABC", Side: SideAsk, Price: 102, Size: 80, Time: 100, Venue: "exchange"}}}

	results, _ := e.Tick(quotes, trades, 100)

	assert.Len(t, results, 2)
	assert.Equal(t, 102.0, results[0].Value/results[0].Quantity)
	assert.Equal(t, 80.0, results[0].Quantity)
	assert.Equal(t, 103.0, results[1].Value/results[1].Quantity)
	assert.Equal(t, 20.0, results[1].Quantity)
	assert.True(t, e.IsEmpty())
	_ = admitted
}

func TestNoDoubleFill(t *testing.T) {
	e := New()
	e.InsertOrderNow(Order{Type: LimitBuy, Symbol: "ABC", Venue: "exchange", Quantity: 20, Price: price(103)}, 100)
	e.InsertOrderNow(Order{Type: LimitBuy, Symbol: "ABC", Venue: "exchange", Quantity: 20, Price: price(103)}, 100)

	quotes := DepthSnapshot{"exchange": {"ABC": Depth{
		Date: 100, Symbol: "ABC", Venue: "exchange",
		Bids: []Level{{Price: 98, Size: 20}},
		Asks: []Level{{Price: 102, Size: 20}},
	}}}
	trades := TradeSnapshot{100: {{Symbol: "ABC", Side: SideAsk, Price: 102, Size: 20, Time: 100, Venue: "exchange"}}}

	results, _ := e.Tick(quotes, trades, 101)

	assert.Len(t, results, 1, "only one of the two competing orders should claim the single displayed level")
	assert.Equal(t, 20.0, results[0].Quantity)
	assert.False(t, e.IsEmpty(), "the unfilled competitor should remain resting")
	assert.Equal(t, 20.0, e.TotalQtyBySymbol("ABC"))
}

func TestLatencyFilterDefersExecution(t *testing.T) {
	e := New().WithLatency(FixedPeriod{Period: 1})
	e.InsertOrderNow(Order{Type: LimitBuy, Symbol: "ABC", Venue: "exchange", Quantity: 10, Price: price(102)}, 100)

	quotes := DepthSnapshot{"exchange": {"ABC": Depth{
		Date: 100, Symbol: "ABC", Venue: "exchange",
		Asks: []Level{{Price: 102, Size: 100}},
	}}}

	r1, _ := e.Tick(quotes, nil, 100)
	assert.Empty(t, r1)

	r2, _ := e.Tick(quotes, nil, 101)
	assert.Empty(t, r2)

	r3, _ := e.Tick(quotes, nil, 102)
	assert.Len(t, r3, 1)
}

func TestCancelThenRefill(t *testing.T) {
	e := New()
	admitted := e.InsertOrderNow(Order{Type: LimitBuy, Symbol: "ABC", Venue: "exchange", Quantity: 10, Price: price(102)}, 100)
	e.InsertOrderNow(Order{Type: Cancel, Symbol: "ABC", Venue: "exchange", OrderIDRef: ref(admitted.ID)}, 100)

	quotes := DepthSnapshot{"exchange": {"ABC": Depth{
		Date: 100, Symbol: "ABC", Venue: "exchange",
		Asks: []Level{{Price: 102, Size: 100}},
	}}}

	results, _ := e.Tick(quotes, nil, 101)

	assert.Len(t, results, 1)
	assert.Equal(t, CancelResult, results[0].Type)
	assert.True(t, e.IsEmpty())
}

func TestModifyCancelByExhaustionRemovesReferencedOrder(t *testing.T) {
	e := New()
	admitted := e.InsertOrderNow(Order{Type: LimitBuy, Symbol: "ABC", Venue: "exchange", Quantity: 10, Price: price(102)}, 100)
	modify := e.InsertOrderNow(Order{Type: Modify, Symbol: "ABC", Venue: "exchange", Quantity: -10, OrderIDRef: ref(admitted.ID)}, 100)

	quotes := DepthSnapshot{"exchange": {"ABC": Depth{
		Date: 100, Symbol: "ABC", Venue: "exchange",
		Asks: []Level{{Price: 102, Size: 100}},
	}}}

	results, _ := e.Tick(quotes, nil, 101)

	assert.Len(t, results, 1)
	assert.Equal(t, ModifyResult, results[0].Type)
	assert.True(t, e.IsEmpty(), "exhausting a modify must remove the referenced order, not the modify pseudo-order")
	_ = modify
}

func TestNonexistentCancelAndModifyAreSilentNoOps(t *testing.T) {
	e := New()
	e.InsertOrderNow(Order{Type: Cancel, Symbol: "ABC", Venue: "exchange", OrderIDRef: ref(999)}, 100)
	e.InsertOrderNow(Order{Type: Modify, Symbol: "ABC", Venue: "exchange", Quantity: 5, OrderIDRef: ref(999)}, 100)

	results, _ := e.Tick(nil, nil, 101)
	assert.Empty(t, results)
}

func TestMissingDepthDefersExecution(t *testing.T) {
	e := New()
	e.InsertOrderNow(Order{Type: MarketBuy, Symbol: "ABC", Venue: "exchange", Quantity: 10}, 100)

	results, _ := e.Tick(DepthSnapshot{}, nil, 101)
	assert.Empty(t, results)
	assert.False(t, e.IsEmpty())
}

func TestOrderIDsMonotonicAndUniqueAcrossTicks(t *testing.T) {
	e := New()
	first := e.InsertOrderNow(Order{Type: MarketBuy, Symbol: "ABC", Venue: "exchange", Quantity: 1}, 100)
	e.InsertOrder(Order{Type: MarketBuy, Symbol: "ABC", Venue: "exchange", Quantity: 1})

	_, admitted := e.Tick(DepthSnapshot{}, nil, 101)

	assert.Len(t, admitted, 1)
	assert.Greater(t, admitted[0].ID, first.ID)
}

func TestIdempotentEmptyTick(t *testing.T) {
	e := New()
	results, admitted := e.Tick(nil, nil, 100)
	assert.Empty(t, results)
	assert.Empty(t, admitted)
	assert.True(t, e.IsEmpty())
}

func TestMalformedLimitOrderPanics(t *testing.T) {
	e := New()
	assert.Panics(t, func() {
		e.InsertOrder(Order{Type: LimitBuy, Symbol: "ABC", Quantity: 10})
	})
}

func TestMalformedCancelPanics(t *testing.T) {
	e := New()
	assert.Panics(t, func() {
		e.InsertOrder(Order{Type: Cancel, Symbol: "ABC"})
	})
}
