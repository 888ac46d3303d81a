package metrics

import (
	"errors"

	"github.com/kilianp07/cabs/core/events"
)

// MultiSink fans records out to several sinks. A failing sink does not keep
// the others from recording; the errors are joined.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordRide(ev events.RideEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordRide(ev))
	}
	return errors.Join(errs...)
}

// RecordCacheUpdate forwards to the sinks that record cache activity.
func (m *MultiSink) RecordCacheUpdate(ev events.CacheEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(CacheUpdateRecorder); ok {
			errs = append(errs, rec.RecordCacheUpdate(ev))
		}
	}
	return errors.Join(errs...)
}

// RecordEventsDropped forwards to the sinks that count bus drops.
func (m *MultiSink) RecordEventsDropped(n int) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(DropRecorder); ok {
			errs = append(errs, rec.RecordEventsDropped(n))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
