package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/cabs/core/events"
	coremqtt "github.com/kilianp07/cabs/core/mqtt"
	"github.com/kilianp07/cabs/infra/logger"
	"github.com/kilianp07/cabs/internal/eventbus"
)

// Client mirrors the core mqtt.Client interface.
type Client = coremqtt.Client

// StartRideForwarder publishes every RideEvent seen on bus through cli until
// ctx is canceled or the bus is closed.
func StartRideForwarder(ctx context.Context, bus eventbus.EventBus, cli Client) {
	if bus == nil || cli == nil {
		return
	}
	log := logger.New("mqtt_forwarder")
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				ride, ok := ev.(events.RideEvent)
				if !ok {
					continue
				}
				if err := cli.PublishRide(ride); err != nil {
					log.Errorf("publish ride %d: %v", ride.RideID, err)
				}
			}
		}
	}()
}

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Events  []events.RideEvent
	FailIDs map[int]bool
	mu      sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailIDs: make(map[int]bool)}
}

// PublishRide records the event or returns an error if configured to fail.
func (m *MockPublisher) PublishRide(ev events.RideEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[ev.RideID] {
		return fmt.Errorf("publish failed")
	}
	m.Events = append(m.Events, ev)
	return nil
}

// Published returns a copy of the recorded events.
func (m *MockPublisher) Published() []events.RideEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.RideEvent(nil), m.Events...)
}

// Disconnect is a no-op.
func (m *MockPublisher) Disconnect() {}
