package broker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts externally observable engine events. A nil registerer
// produces working but unregistered collectors, which keeps tests quiet.
type Metrics struct {
	OrdersPlaced   prometheus.Counter
	AmmFills       prometheus.Counter
	BookFills      prometheus.Counter
	LevelsEmptied  prometheus.Counter
	OrdersCanceled prometheus.Counter
	Claims         prometheus.Counter
}

// NewMetrics creates the engine metric set.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OrdersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "broker", Name: "orders_placed_total",
			Help: "Number of successfully placed orders.",
		}),
		AmmFills: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "broker", Name: "amm_fills_total",
			Help: "Number of orders partially or fully filled by the pool at placement.",
		}),
		BookFills: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "broker", Name: "book_fills_total",
			Help: "Number of price levels consumed from by takers.",
		}),
		LevelsEmptied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "broker", Name: "levels_emptied_total",
			Help: "Number of price level generation advances.",
		}),
		OrdersCanceled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "broker", Name: "orders_canceled_total",
			Help: "Number of successful cancel operations.",
		}),
		Claims: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "broker", Name: "claims_total",
			Help: "Number of successful claim payouts.",
		}),
	}
}
