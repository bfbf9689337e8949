package quote

import "sync"

// Store is an in-memory, read-only-after-load data feed: a reference
// QuoteSource adapter good enough to drive the engines in tests, demos, and
// the façade's sample dataset. It is not a market-data ingestion pipeline
// (CSV/HTTP loaders that turn a vendor feed into Quote/Depth/Trade values
// stay external, per the engine's scope); Store only holds what has
// already been loaded.
//
// Modeled on the original backtester's in-memory quote source: a nested map
// from timestamp to symbol, queried by (now, symbol) or (now, venue,
// symbol).
type Store struct {
	mu     sync.RWMutex
	quotes map[int64]map[string]Quote
	depth  map[int64]map[string]map[string]Depth
	trades map[int64][]Trade
}

func NewStore() *Store {
	return &Store{
		quotes: make(map[int64]map[string]Quote),
		depth:  make(map[int64]map[string]map[string]Depth),
		trades: make(map[int64][]Trade),
	}
}

// AddQuote records a top-of-book quote for V1 lookups.
func (s *Store) AddQuote(bid, ask float64, date int64, symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.quotes[date]
	if !ok {
		row = make(map[string]Quote)
		s.quotes[date] = row
	}
	row[symbol] = Quote{Bid: bid, Ask: ask, Date: date, Symbol: symbol}
}

// GetQuote implements the V1 QuoteSource contract: an absent quote is not
// an error, just a miss.
func (s *Store) GetQuote(now int64, symbol string) (Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.quotes[now]
	if !ok {
		return Quote{}, false
	}
	q, ok := row[symbol]
	return q, ok
}

// AddDepth records a full depth snapshot for V2 lookups.
func (s *Store) AddDepth(venue string, d Depth) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byVenue, ok := s.depth[d.Date]
	if !ok {
		byVenue = make(map[string]map[string]Depth)
		s.depth[d.Date] = byVenue
	}
	bySymbol, ok := byVenue[venue]
	if !ok {
		bySymbol = make(map[string]Depth)
		byVenue[venue] = bySymbol
	}
	bySymbol[d.Symbol] = d
}

// AddTrade records a taker print for V2 Phase A aggregation.
func (s *Store) AddTrade(t Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades[t.Time] = append(s.trades[t.Time], t)
}

// DepthSnapshotAt returns the venue->symbol->Depth view for `now`, ready to
// pass straight to the depth engine's Tick.
func (s *Store) DepthSnapshotAt(now int64) DepthSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byVenue, ok := s.depth[now]
	if !ok {
		return DepthSnapshot{}
	}
	out := make(DepthSnapshot, len(byVenue))
	for venue, bySymbol := range byVenue {
		cp := make(map[string]Depth, len(bySymbol))
		for sym, d := range bySymbol {
			cp[sym] = d
		}
		out[venue] = cp
	}
	return out
}

// TradesAt returns the taker prints recorded for `now`, windowed to a
// single-entry TradeSnapshot so Phase A's aggregation only sees this
// tick's prints.
func (s *Store) TradesAt(now int64) TradeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades, ok := s.trades[now]
	if !ok || len(trades) == 0 {
		return TradeSnapshot{}
	}
	cp := make([]Trade, len(trades))
	copy(cp, trades)
	return TradeSnapshot{now: cp}
}
