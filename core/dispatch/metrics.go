package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	rideRequests        *prometheus.CounterVec
	offersTotal         *prometheus.CounterVec
	broadcastsTotal     prometheus.Counter
	orchestratorsActive prometheus.Gauge
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter, prometheus.Gauge) {
	req := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_ride_requests_total",
			Help: "Ride requests accepted by a shard",
		},
		[]string{"shard"},
	)
	off := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_offers_total",
			Help: "Ride offers answered by cabs",
		},
		[]string{"reply"},
	)
	bc := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_broadcast_messages_total",
			Help: "Cache updates sent to sibling shards",
		},
	)
	act := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatch_orchestrators_active",
			Help: "Orchestrators currently alive",
		},
	)
	return req, off, bc, act
}

func init() {
	rideRequests, offersTotal, broadcastsTotal, orchestratorsActive = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(rideRequests, offersTotal, broadcastsTotal, orchestratorsActive)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	rideRequests, offersTotal, broadcastsTotal, orchestratorsActive = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
