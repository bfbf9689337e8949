package quote

import "math/rand"

// RandomStore builds a Store populated with synthetic top-of-book quotes
// for symbols "ABC" and "BCD" across `length` consecutive integer
// timestamps starting at 100, for demos and load tests that don't care
// about realistic prices. Grounded on the original backtester's
// random_penelope_generator.
func RandomStore(length int64, seed int64) *Store {
	rng := rand.New(rand.NewSource(seed))
	store := NewStore()

	sample := func() float64 {
		return 90.0 + rng.Float64()*10.0
	}

	const start = int64(100)
	for i := int64(0); i < length; i++ {
		date := start + i
		store.AddQuote(sample(), sample(), date, "ABC")
		store.AddQuote(sample(), sample(), date, "BCD")
	}
	return store
}

// RandomDepthStore is RandomStore's V2 counterpart: it additionally
// populates a single-level Depth (sized from a random volume draw) and
// a matching taker print at each side's price, at every timestamp, for
// symbols "ABC" and "BCD" on venue. Good enough to drive the depth
// engine's façade demo end to end without a real market-data feed.
func RandomDepthStore(length int64, seed int64, venue string) *Store {
	rng := rand.New(rand.NewSource(seed))
	store := NewStore()

	samplePrice := func() float64 { return 90.0 + rng.Float64()*10.0 }
	sampleSize := func() float64 { return 10.0 + rng.Float64()*90.0 }

	const start = int64(100)
	for i := int64(0); i < length; i++ {
		date := start + i
		for _, symbol := range []string{"ABC", "BCD"} {
			bid, ask := samplePrice(), samplePrice()
			if bid > ask {
				bid, ask = ask, bid
			}
			bidSize, askSize := sampleSize(), sampleSize()

			store.AddQuote(bid, ask, date, symbol)

			d := NewDepth(date, symbol, venue)
			d.AddBid(Level{Price: bid, Size: bidSize})
			d.AddAsk(Level{Price: ask, Size: askSize})
			store.AddDepth(venue, d)

			store.AddTrade(Trade{Symbol: symbol, Side: SideAsk, Price: ask, Size: askSize, Time: date, Venue: venue})
			store.AddTrade(Trade{Symbol: symbol, Side: SideBid, Price: bid, Size: bidSize, Time: date, Venue: venue})
		}
	}
	return store
}
