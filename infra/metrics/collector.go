package metrics

import (
	"context"

	"github.com/kilianp07/cabs/core/events"
	coremetrics "github.com/kilianp07/cabs/core/metrics"
	"github.com/kilianp07/cabs/infra/logger"
	"github.com/kilianp07/cabs/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed, and closes done
// on exit when done is not nil.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, done chan<- struct{}) {
	if bus == nil || sink == nil {
		if done != nil {
			close(done)
		}
		return
	}
	log := logger.New("event-collector")
	sub := bus.Subscribe()
	go func() {
		defer func() {
			bus.Unsubscribe(sub)
			if done != nil {
				close(done)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Warnf("record %T: %v", ev, err)
				}
			}
		}
	}()
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event) error {
	switch e := ev.(type) {
	case events.RideEvent:
		return sink.RecordRide(e)
	case events.CacheEvent:
		if r, ok := sink.(coremetrics.CacheUpdateRecorder); ok {
			return r.RecordCacheUpdate(e)
		}
	}
	return nil
}
