package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/cabs/core/events"
	coremetrics "github.com/kilianp07/cabs/core/metrics"
)

// PromSink records ride and cache events in Prometheus metrics.
type PromSink struct {
	rides   *prometheus.CounterVec
	fares   prometheus.Histogram
	cache   *prometheus.CounterVec
	dropped prometheus.Counter
}

// NewPromSink registers ride metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rides := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cab_rides_total",
		Help: "Ride attempts by outcome",
	}, []string{"outcome"})
	fares := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cab_ride_fare",
		Help:    "Fare charged for started rides",
		Buckets: prometheus.ExponentialBuckets(10, 2, 10),
	})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cab_cache_updates_total",
		Help: "Shard cache overwrites",
	}, []string{"shard", "origin"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cab_event_bus_dropped_total",
		Help: "Events dropped by the event bus",
	})

	var err error
	if rides, err = register(reg, rides); err != nil {
		return nil, err
	}
	if fares, err = register(reg, fares); err != nil {
		return nil, err
	}
	if cache, err = register(reg, cache); err != nil {
		return nil, err
	}
	if dropped, err = register(reg, dropped); err != nil {
		return nil, err
	}
	return &PromSink{rides: rides, fares: fares, cache: cache, dropped: dropped}, nil
}

// register reuses an already registered collector of the same name.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRide counts the outcome and observes the fare of started rides.
func (s *PromSink) RecordRide(ev events.RideEvent) error {
	s.rides.WithLabelValues(string(ev.Outcome)).Inc()
	if ev.Outcome == events.RideStarted {
		s.fares.Observe(float64(ev.Fare))
	}
	return nil
}

// RecordCacheUpdate counts a cache overwrite.
func (s *PromSink) RecordCacheUpdate(ev events.CacheEvent) error {
	s.cache.WithLabelValues(strconv.Itoa(ev.Shard), string(ev.Origin)).Inc()
	return nil
}

// RecordEventsDropped adds n to the drop counter.
func (s *PromSink) RecordEventsDropped(n int) error {
	if n > 0 {
		s.dropped.Add(float64(n))
	}
	return nil
}
