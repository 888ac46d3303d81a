package model

// MajorState is the sign-in axis of a cab.
type MajorState int

const (
	SignedOut MajorState = iota
	SignedIn
)

func (s MajorState) String() string {
	switch s {
	case SignedIn:
		return "signed-in"
	default:
		return "signed-out"
	}
}

// MinorState is the ride axis of a cab. It is only meaningful while the cab
// is signed in; MinorNone stands for "undefined".
type MinorState int

const (
	MinorNone MinorState = iota
	Available
	Committed
	GivingRide
)

func (s MinorState) String() string {
	switch s {
	case Available:
		return "available"
	case Committed:
		return "committed"
	case GivingRide:
		return "giving-ride"
	default:
		return ""
	}
}

// OnRide reports whether the state carries ride fields.
func (s MinorState) OnRide() bool {
	return s == Committed || s == GivingRide
}

// NoRide marks unset positions, locations and ride ids.
const NoRide = -1

// CabStatus is the answer to a status query on a cab.
type CabStatus struct {
	CabID      string     `json:"cab_id"`
	Major      MajorState `json:"-"`
	Minor      MinorState `json:"-"`
	MajorState string     `json:"major_state"`
	MinorState string     `json:"minor_state,omitempty"`
	Position   int        `json:"position"`
	RideID     int        `json:"ride_id"`
	RidesGiven int        `json:"rides_given"`
}

// CacheEntry is a shard's replica of the externally visible fields of a cab.
// It may lag behind the cab itself.
type CacheEntry struct {
	CabID       string     `json:"cab_id"`
	Position    int        `json:"position"`
	Major       MajorState `json:"major"`
	Minor       MinorState `json:"minor"`
	RideID      int        `json:"ride_id"`
	Source      int        `json:"source"`
	Destination int        `json:"destination"`
}

// SignedOutEntry is the cache entry of a cab that is not signed in.
func SignedOutEntry(cabID string) CacheEntry {
	return CacheEntry{
		CabID:       cabID,
		Position:    NoRide,
		Major:       SignedOut,
		Minor:       MinorNone,
		RideID:      NoRide,
		Source:      NoRide,
		Destination: NoRide,
	}
}

// AvailableEntry is the cache entry of a free cab at pos.
func AvailableEntry(cabID string, pos int) CacheEntry {
	return CacheEntry{
		CabID:       cabID,
		Position:    pos,
		Major:       SignedIn,
		Minor:       Available,
		RideID:      NoRide,
		Source:      NoRide,
		Destination: NoRide,
	}
}

// Bookable reports whether the replica says the cab can take a ride.
func (e CacheEntry) Bookable() bool {
	return e.Major == SignedIn && e.Minor == Available
}

// OfferReply is a cab's answer to a ride offer.
type OfferReply int

const (
	Interested OfferReply = iota
	NotInterested
	Busy
)

func (r OfferReply) String() string {
	switch r {
	case Interested:
		return "interested"
	case Busy:
		return "busy"
	default:
		return "not-interested"
	}
}
