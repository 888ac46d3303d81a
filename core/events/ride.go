package events

import (
	"time"

	"github.com/kilianp07/cabs/core/model"
)

// RideOutcome classifies a RideEvent.
type RideOutcome string

const (
	RideStarted       RideOutcome = "started"
	RideRejected      RideOutcome = "rejected"
	RidePaymentFailed RideOutcome = "payment_failed"
	RideCompleted     RideOutcome = "completed"
)

// RideEvent is published by an orchestrator each time a ride attempt reaches
// an outcome. A started ride publishes a second event once it completes.
type RideEvent struct {
	Orchestrator string      `json:"orchestrator"`
	Shard        int         `json:"shard"`
	RideID       int         `json:"ride_id"`
	CustomerID   string      `json:"customer_id"`
	CabID        string      `json:"cab_id,omitempty"`
	Source       int         `json:"source"`
	Destination  int         `json:"destination"`
	Fare         int         `json:"fare"`
	Offers       int         `json:"offers"`
	Outcome      RideOutcome `json:"outcome"`
	Time         time.Time   `json:"time"`
}

// Response returns what the requester was told for this event.
func (e RideEvent) Response() model.RideResponse {
	if e.Outcome != RideStarted && e.Outcome != RideCompleted {
		return model.Rejected()
	}
	return model.RideResponse{RideID: e.RideID, CabID: e.CabID, Fare: e.Fare}
}
