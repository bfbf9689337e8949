package topbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeQuotes map[string]Quote

func (f fakeQuotes) GetQuote(now int64, symbol string) (Quote, bool) {
	q, ok := f[symbol]
	return q, ok
}

func price(p float64) *float64 { return &p }

func TestMarketBuyFillsAtBestAsk(t *testing.T) {
	e := New()
	e.InsertOrder(Order{Type: MarketBuy, Symbol: "ABC", Quantity: 100})

	results := e.Execute(fakeQuotes{"ABC": {Bid: 101, Ask: 102}}, 100)

	assert.Len(t, results, 1)
	assert.Equal(t, Buy, results[0].Type)
	assert.Equal(t, 102.0, results[0].Value/results[0].Quantity)
	assert.Equal(t, 100.0, results[0].Quantity)
	assert.True(t, e.IsEmpty())
}

func TestLimitLadderSelectivity(t *testing.T) {
	e := New()
	lowID := e.InsertOrder(Order{Type: LimitBuy, Symbol: "ABC", Quantity: 100, Price: price(95)})
	highID := e.InsertOrder(Order{Type: LimitBuy, Symbol: "ABC", Quantity: 100, Price: price(105)})

	results := e.Execute(fakeQuotes{"ABC": {Bid: 101, Ask: 102}}, 100)

	assert.Len(t, results, 1)
	assert.Equal(t, highID, results[0].OrderID)
	assert.Equal(t, 1.0, e.TotalQtyBySymbol("ABC")/100)
	_ = lowID
}

func TestStopTriggers(t *testing.T) {
	e := New()
	e.InsertOrder(Order{Type: StopBuy, Symbol: "ABC", Quantity: 50, Price: price(95)})
	e.InsertOrder(Order{Type: StopSell, Symbol: "ABC", Quantity: 50, Price: price(105)})

	results := e.Execute(fakeQuotes{"ABC": {Bid: 101, Ask: 102}}, 100)

	assert.Len(t, results, 2)
}

func TestUnknownSymbolNoOp(t *testing.T) {
	e := New()
	e.InsertOrder(Order{Type: MarketBuy, Symbol: "ZZZ", Quantity: 10})

	results := e.Execute(fakeQuotes{"ABC": {Bid: 101, Ask: 102}}, 100)

	assert.Empty(t, results)
	assert.False(t, e.IsEmpty())
}

func TestMissingQuoteDefersExecution(t *testing.T) {
	e := New()
	e.InsertOrder(Order{Type: MarketBuy, Symbol: "ABC", Quantity: 10})

	results := e.Execute(fakeQuotes{}, 100)
	assert.Empty(t, results)

	results = e.Execute(fakeQuotes{"ABC": {Bid: 101, Ask: 102}}, 101)
	assert.Len(t, results, 1)
}

func TestMalformedLimitOrderPanics(t *testing.T) {
	e := New()
	assert.Panics(t, func() {
		e.InsertOrder(Order{Type: LimitBuy, Symbol: "ABC", Quantity: 10})
	})
}

func TestIdempotentEmptyTick(t *testing.T) {
	e := New()
	results := e.Execute(fakeQuotes{"ABC": {Bid: 101, Ask: 102}}, 100)
	assert.Empty(t, results)
	assert.True(t, e.IsEmpty())
}
