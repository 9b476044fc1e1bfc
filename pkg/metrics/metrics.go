package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RoomsCreated counts rooms created over the process lifetime.
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rooms_created_total",
		Help: "Number of rooms created.",
	})

	// RoomsReclaimed counts empty rooms deleted by the cleanup timer.
	RoomsReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rooms_reclaimed_total",
		Help: "Number of empty rooms reclaimed after the grace period.",
	})

	// ActiveConnections tracks currently open realtime connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connections_active",
		Help: "Currently open websocket connections.",
	})

	// Broadcasts counts fan-outs to rooms, one per message regardless
	// of how many members receive it.
	Broadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ws_broadcasts_total",
		Help: "Messages broadcast to rooms.",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
