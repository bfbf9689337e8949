package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mimir/internal/api"
	"mimir/internal/clock"
	"mimir/internal/config"
	"mimir/internal/engine/depth"
	"mimir/internal/engine/topbook"
	"mimir/internal/quote"
)

// topbookQuoteSource adapts quote.Store's (date, symbol) -> Quote
// lookup to the narrower capability topbook.Engine needs. The V1
// engine never owns quote storage, so it depends on the one-method
// topbook.QuoteSource interface rather than the concrete Store type.
type topbookQuoteSource struct {
	store *quote.Store
}

func (s topbookQuoteSource) GetQuote(now int64, symbol string) (topbook.Quote, bool) {
	q, ok := s.store.GetQuote(now, symbol)
	if !ok {
		return topbook.Quote{}, false
	}
	return topbook.Quote{Bid: q.Bid, Ask: q.Ask}, true
}

// runTopbook drives the V1 engine headlessly: it has no Cancel/Modify
// order types, so it doesn't share the depth façade's delete_order
// semantics and isn't exposed over HTTP. This path exists so the
// config's "topbook" variant is runnable end to end, not just
// reachable from tests.
func runTopbook(ctx context.Context, store *quote.Store, c *clock.Clock) {
	eng := topbook.New()
	source := topbookQuoteSource{store: store}

	eng.InsertOrder(topbook.Order{Type: topbook.MarketBuy, Symbol: "ABC", Quantity: 10})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		now := c.Now()
		results := eng.Execute(source, now)
		for _, r := range results {
			log.Info().Int64("tick", now).Str("symbol", r.Symbol).Float64("qty", r.Quantity).Msg("topbook: fill")
		}
		if !c.HasNext() {
			return
		}
		c.Tick()
	}
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("mimir: failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("mimir: invalid config")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	const venue = "mimir"
	harnessClock := clock.EverySecond(100, 500)

	if cfg.Engine.Variant == "topbook" {
		log.Info().Msg("mimir: running V1 topbook headlessly (no HTTP façade)")
		runTopbook(ctx, quote.RandomStore(500, 1), harnessClock)
		return
	}

	store := quote.RandomDepthStore(500, 1, venue)

	eng := depth.New()
	if cfg.Engine.LatencyPeriod > 0 {
		eng = eng.WithLatency(depth.FixedPeriod{Period: cfg.Engine.LatencyPeriod})
	}
	if cfg.Engine.Priority == "trade_through" {
		eng = eng.WithPriority(depth.TradeThrough)
	}

	srv := api.NewServer(eng, harnessClock, store, venue, "synthetic-demo")
	srv.Start(cfg.Listen.Address)

	log.Info().Str("addr", cfg.Listen.Address).Msg("mimir: started")

	<-ctx.Done()

	if err := srv.Stop(); err != nil {
		log.Error().Err(err).Msg("mimir: error during shutdown")
	}
}
