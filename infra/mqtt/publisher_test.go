package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/cabs/core/events"
	"github.com/kilianp07/cabs/internal/eventbus"
)

func TestRideForwarder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := eventbus.New()
	pub := NewMockPublisher()
	pub.FailIDs[21] = true
	StartRideForwarder(ctx, bus, pub)

	// the forwarder subscribes synchronously, so nothing is lost
	bus.Publish(events.RideEvent{RideID: 11, Outcome: events.RideStarted})
	bus.Publish(events.CacheEvent{Shard: 1})
	bus.Publish(events.RideEvent{RideID: 21, Outcome: events.RideRejected})
	bus.Publish(events.RideEvent{RideID: 11, Outcome: events.RideCompleted})

	require.Eventually(t, func() bool { return len(pub.Published()) == 2 }, time.Second, 5*time.Millisecond)
	got := pub.Published()
	assert.Equal(t, events.RideStarted, got[0].Outcome)
	assert.Equal(t, events.RideCompleted, got[1].Outcome)
}
