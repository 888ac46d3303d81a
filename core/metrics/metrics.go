package metrics

import "github.com/kilianp07/cabs/core/events"

// MetricsSink records ride outcomes for observability purposes.
type MetricsSink interface {
	RecordRide(ev events.RideEvent) error
}

// CacheUpdateRecorder records shard cache overwrites.
type CacheUpdateRecorder interface {
	RecordCacheUpdate(ev events.CacheEvent) error
}

// DropRecorder records events lost by the event bus.
type DropRecorder interface {
	RecordEventsDropped(n int) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRide(events.RideEvent) error         { return nil }
func (NopSink) RecordCacheUpdate(events.CacheEvent) error { return nil }
func (NopSink) RecordEventsDropped(int) error             { return nil }
