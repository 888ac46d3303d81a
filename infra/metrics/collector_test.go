package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/cabs/core/events"
	"github.com/kilianp07/cabs/internal/eventbus"
)

type captureSink struct {
	mu    sync.Mutex
	rides []events.RideEvent
	cache []events.CacheEvent
}

func (c *captureSink) RecordRide(ev events.RideEvent) error {
	c.mu.Lock()
	c.rides = append(c.rides, ev)
	c.mu.Unlock()
	return nil
}

func (c *captureSink) RecordCacheUpdate(ev events.CacheEvent) error {
	c.mu.Lock()
	c.cache = append(c.cache, ev)
	c.mu.Unlock()
	return nil
}

func (c *captureSink) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rides), len(c.cache)
}

func TestEventCollector(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := eventbus.New()
	sink := &captureSink{}
	done := make(chan struct{})
	StartEventCollector(ctx, bus, sink, done)

	bus.Publish(events.RideEvent{RideID: 11, Outcome: events.RideStarted})
	bus.Publish(events.CacheEvent{Shard: 1, Origin: events.OriginLocal})
	bus.Publish("ignored")

	require.Eventually(t, func() bool {
		r, c := sink.counts()
		return r == 1 && c == 1
	}, time.Second, 5*time.Millisecond)

	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
	assert.Equal(t, 11, sink.rides[0].RideID)
}

func TestEventCollectorNilBus(t *testing.T) {
	done := make(chan struct{})
	StartEventCollector(context.Background(), nil, &captureSink{}, done)
	<-done
}
