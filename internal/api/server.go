package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gopkg.in/tomb.v2"

	"mimir/internal/clock"
	"mimir/internal/engine/depth"
	"mimir/internal/metrics"
	"mimir/internal/quote"
)

// Server hosts a depth.Engine behind HTTP/JSON, serializing every
// mutating call through mu per spec.md §5: every handler that touches
// the engine, clock or store holds the lock around that access,
// guaranteeing concurrent clients observe a linear history of ticks.
type Server struct {
	mu      sync.Mutex
	engine  *depth.Engine
	clock   *clock.Clock
	store   *quote.Store
	venue   string
	dataset string

	tomb   tomb.Tomb
	router *mux.Router
	fills  *fillBroadcaster
}

// NewServer wires a depth.Engine against a reference QuoteSource and a
// harness clock, and builds the route table. The caller still needs to
// serve Router() with http.ListenAndServe (or call Start, for the
// supervised variant) to begin serving.
func NewServer(engine *depth.Engine, c *clock.Clock, store *quote.Store, venue, dataset string) *Server {
	s := &Server{
		engine:  engine,
		clock:   c,
		store:   store,
		venue:   venue,
		dataset: dataset,
		fills:   newFillBroadcaster(),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(recoveryMiddleware)

	r.HandleFunc("/", s.handleInfo).Methods(http.MethodGet)
	r.HandleFunc("/init", s.handleInit).Methods(http.MethodGet)
	r.HandleFunc("/fetch_quotes", s.handleFetchQuotes).Methods(http.MethodGet)
	r.HandleFunc("/tick", s.handleTick).Methods(http.MethodGet)
	r.HandleFunc("/insert_order", s.handleInsertOrder).Methods(http.MethodPost)
	r.HandleFunc("/delete_order", s.handleDeleteOrder).Methods(http.MethodPost)
	r.HandleFunc("/ws/fills", s.handleWSFills)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return r
}

// Router exposes the route table for tests and for http.ListenAndServe.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start launches the HTTP server under tomb supervision: t.Go to
// launch, t.Dying() to detect shutdown, t.Err()/t.Wait() to propagate
// failures — the same supervised-goroutine idiom the reference TCP
// exchange server used, adapted here for a stateless HTTP listener
// instead of a connection-per-client protocol.
func (s *Server) Start(addr string) {
	httpServer := &http.Server{Addr: addr, Handler: s.router}

	s.tomb.Go(func() error {
		log.Info().Str("addr", addr).Msg("api: listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	s.tomb.Go(func() error {
		<-s.tomb.Dying()
		log.Info().Msg("api: shutting down")
		return httpServer.Close()
	})
}

// Stop signals shutdown and waits for the supervised goroutines to exit.
func (s *Server) Stop() error {
	s.tomb.Kill(nil)
	return s.tomb.Wait()
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("api: recovered panic")
				writeError(w, http.StatusBadRequest, "malformed request")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{Version: "v2", Dataset: s.dataset})
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	start := s.clock.Now()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, initResponse{Start: start, Frequency: "tick"})
}

func (s *Server) handleFetchQuotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	now := s.clock.Now()
	snapshot := s.store.DepthSnapshotAt(now)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	snapshot := toEngineDepthSnapshot(s.store.DepthSnapshotAt(now))
	trades := toEngineTradeSnapshot(s.store.TradesAt(now))

	results, admitted := s.engine.Tick(snapshot, trades, now)

	metrics.TicksTotal.WithLabelValues("depth").Inc()
	for _, r := range results {
		if r.Type == depth.Buy || r.Type == depth.Sell {
			metrics.FillsTotal.WithLabelValues("depth", r.Symbol).Inc()
		}
	}
	metrics.OrdersAdmittedTotal.WithLabelValues("depth").Add(float64(len(admitted)))

	s.fills.broadcast(results)

	hasNext := s.clock.HasNext()
	if hasNext {
		s.clock.Tick()
	}

	dtoResults := make([]resultDTO, len(results))
	for i, r := range results {
		dtoResults[i] = resultToDTO(r)
	}
	dtoAdmitted := make([]restingOrderDTO, len(admitted))
	for i, a := range admitted {
		dtoAdmitted[i] = restingToDTO(a)
	}

	writeJSON(w, http.StatusOK, tickResponse{
		HasNext:        hasNext,
		ExecutedTrades: dtoResults,
		InsertedOrders: dtoAdmitted,
	})
}

func (s *Server) handleInsertOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Order orderDTO `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := body.Order.toEngineOrder()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if order.Venue == "" {
		order.Venue = s.venue
	}

	requestID := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.InsertOrder(order)

	log.Debug().Str("request_id", requestID).Str("symbol", order.Symbol).Msg("api: order staged")
	writeJSON(w, http.StatusOK, insertAck{RequestID: requestID})
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderID uint64 `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ref := body.OrderID
	s.mu.Lock()
	s.engine.InsertOrder(depth.Order{Type: depth.Cancel, Venue: s.venue, OrderIDRef: &ref})
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, struct{}{})
}
