// Package metrics instruments tick/fill/admission activity. Only the
// depth engine's HTTP façade (internal/api) records into these
// collectors; the headless topbook loop records nothing, and no caller
// sets RestingOrders. It is a pure side-channel: nothing here ever
// feeds back into matching behavior, and a metrics read never blocks a
// tick.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mimir_ticks_total",
		Help: "Total number of engine ticks processed, by engine variant.",
	}, []string{"engine"})

	FillsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mimir_fills_total",
		Help: "Total number of fill OrderResults emitted, by engine variant and symbol.",
	}, []string{"engine", "symbol"})

	OrdersAdmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mimir_orders_admitted_total",
		Help: "Total number of orders admitted into a resting book, by engine variant.",
	}, []string{"engine"})

	RestingOrders = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mimir_resting_orders",
		Help: "Current count of resting orders, by engine variant and symbol.",
	}, []string{"engine", "symbol"})
)

// Registry is the collector set the façade exposes on GET /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(TicksTotal, FillsTotal, OrdersAdmittedTotal, RestingOrders)
}
