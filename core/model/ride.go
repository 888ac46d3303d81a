package model

// RideResponse is returned to whoever requested a ride.
type RideResponse struct {
	RideID int    `json:"ride_id"`
	CabID  string `json:"cab_id,omitempty"`
	Fare   int    `json:"fare"`
}

// Rejected is the sentinel answer for a ride that could not be arranged.
func Rejected() RideResponse {
	return RideResponse{RideID: NoRide, Fare: NoRide}
}

// OK reports whether the ride was arranged.
func (r RideResponse) OK() bool { return r.RideID != NoRide }

// Ride holds the request an orchestrator works on.
type Ride struct {
	ID          int
	CustomerID  string
	Source      int
	Destination int
}

// ValidLocations reports whether both coordinates are on the line.
func ValidLocations(source, destination int) bool {
	return source >= 0 && destination >= 0
}
