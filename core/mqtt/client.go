package mqtt

import "github.com/kilianp07/cabs/core/events"

// Client publishes ride outcomes to the broker.
type Client interface {
	// PublishRide sends the event to the ride's topic.
	PublishRide(ev events.RideEvent) error
	// Disconnect closes the connection.
	Disconnect()
}

// RideEndedHandler is invoked for each ride-ended command received for a cab.
type RideEndedHandler func(cabID string, rideID int)
