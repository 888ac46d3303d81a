// Package cab implements the vehicle state machine. A cab owns the
// authoritative copy of its state and reports sign-in and sign-out to one
// dispatch shard picked at random.
package cab

import (
	"context"
	"math/rand"
	"time"

	"github.com/kilianp07/cabs/core/logger"
	"github.com/kilianp07/cabs/core/model"
	"github.com/kilianp07/cabs/internal/mailbox"
)

// Dispatcher is the part of a dispatch shard a cab talks to.
type Dispatcher interface {
	CabSignedIn(cabID string, pos int)
	CabSignedOut(cabID string)
}

// Shards gives access to the N dispatch shards.
type Shards interface {
	Len() int
	Shard(i int) Dispatcher
}

// Requester is the orchestrator that offered a ride to the cab.
type Requester interface {
	CabReply(cabID string, reply model.OfferReply)
	RideEnded(rideID int)
}

// Option customises a Cab.
type Option func(*Cab)

// WithRand sets the source used to pick a shard.
func WithRand(r *rand.Rand) Option {
	return func(c *Cab) { c.rng = r }
}

// Cab is a single vehicle.
type Cab struct {
	id string

	position         int
	major            model.MajorState
	minor            model.MinorState
	lastRideAccepted bool
	rideID           int
	source           int
	destination      int
	ridesGiven       int
	requester        Requester

	shards Shards
	rng    *rand.Rand
	inbox  *mailbox.Mailbox[command]
	log    logger.Logger
}

// New creates a signed-out cab.
func New(id string, shards Shards, log logger.Logger, opts ...Option) *Cab {
	c := &Cab{
		id:     id,
		shards: shards,
		inbox:  mailbox.New[command](),
		log:    logger.OrNop(log),
	}
	c.clear()
	for _, o := range opts {
		o(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// ID returns the cab id.
func (c *Cab) ID() string { return c.id }

// Run processes messages until ctx is done.
func (c *Cab) Run(ctx context.Context) error {
	c.inbox.Run(ctx, c.handle)
	return nil
}

// SignIn puts the cab on the road at pos.
func (c *Cab) SignIn(pos int) { c.inbox.Send(signIn{pos: pos}) }

// SignOut takes an available cab off the road.
func (c *Cab) SignOut() { c.inbox.Send(signOut{}) }

// RideEnded ends the ride rideID. Stale ids are ignored.
func (c *Cab) RideEnded(rideID int) { c.inbox.Send(rideEnded{rideID: rideID}) }

// RequestRide offers a ride. The answer goes to replyTo.
func (c *Cab) RequestRide(source, destination, rideID int, replyTo Requester) {
	c.inbox.Send(requestRide{source: source, destination: destination, rideID: rideID, replyTo: replyTo})
}

// RideStarted confirms a committed ride once it has been paid for.
func (c *Cab) RideStarted(rideID int, cabID string) {
	c.inbox.Send(rideStarted{rideID: rideID, cabID: cabID})
}

// RideCancelled releases a committed ride.
func (c *Cab) RideCancelled(rideID int, cabID string) {
	c.inbox.Send(rideCancelled{rideID: rideID, cabID: cabID})
}

// Status returns a snapshot of the cab.
func (c *Cab) Status(ctx context.Context) (model.CabStatus, error) {
	return mailbox.Ask(ctx, c.inbox, func(r chan<- model.CabStatus) command { return getStatus{reply: r} })
}

// RideCount returns the number of rides given since the last sign-in.
func (c *Cab) RideCount(ctx context.Context) (int, error) {
	return mailbox.Ask(ctx, c.inbox, func(r chan<- int) command { return rideCount{reply: r} })
}

// Reset ends any ongoing ride, signs the cab out and returns the ride count
// it had before.
func (c *Cab) Reset(ctx context.Context) (int, error) {
	return mailbox.Ask(ctx, c.inbox, func(r chan<- int) command { return reset{reply: r} })
}
