package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/cabs/core/events"
	"github.com/kilianp07/cabs/core/logger"
	"github.com/kilianp07/cabs/core/model"
	"github.com/kilianp07/cabs/core/wallet"
	"github.com/kilianp07/cabs/internal/eventbus"
	"github.com/kilianp07/cabs/internal/mailbox"
)

type orchMsg interface{ isOrchMsg() }

type offerReply struct {
	cabID string
	reply model.OfferReply
}

type debitResult struct{ balance int }

type rideOver struct{ rideID int }

func (offerReply) isOrchMsg()  {}
func (debitResult) isOrchMsg() {}
func (rideOver) isOrchMsg()    {}

type orchPhase int

const (
	phaseOffering orchPhase = iota
	phasePaying
	phaseRiding
)

// OrchestratorConfig holds the per-shard knobs an orchestrator needs.
type OrchestratorConfig struct {
	Shard         int
	MaxCandidates int
	FarePerUnit   int
}

// Orchestrator negotiates one ride. It offers the ride to the closest
// candidates one at a time, charges the customer and then waits for the cab
// to report the end of the ride.
type Orchestrator struct {
	id         string
	cfg        OrchestratorConfig
	ride       model.Ride
	candidates []model.CacheEntry
	offers     int

	phase   orchPhase
	current model.CacheEntry
	cab     CabRef
	fare    int

	owner   Updater
	dir     Directory
	replyTo RideReceiver
	bus     eventbus.EventBus
	log     logger.Logger
	inbox   *mailbox.Mailbox[orchMsg]
}

// NewOrchestrator prepares an orchestrator for ride from a private copy of
// the shard cache.
func NewOrchestrator(ride model.Ride, snapshot map[string]model.CacheEntry, cfg OrchestratorConfig,
	owner Updater, dir Directory, replyTo RideReceiver, bus eventbus.EventBus, log logger.Logger) *Orchestrator {
	if cfg.MaxCandidates == 0 {
		cfg.MaxCandidates = DefaultMaxCandidates
	}
	return &Orchestrator{
		id:         uuid.NewString(),
		cfg:        cfg,
		ride:       ride,
		candidates: Candidates(snapshot, ride.Source, cfg.MaxCandidates),
		owner:      owner,
		dir:        dir,
		replyTo:    replyTo,
		bus:        bus,
		log:        logger.OrNop(log),
		inbox:      mailbox.New[orchMsg](),
	}
}

// ID returns the orchestrator handle.
func (o *Orchestrator) ID() string { return o.id }

// CabReply is called by a cab answering an offer.
func (o *Orchestrator) CabReply(cabID string, reply model.OfferReply) {
	o.inbox.Send(offerReply{cabID: cabID, reply: reply})
}

// DebitResult is called by the customer's wallet.
func (o *Orchestrator) DebitResult(balance int) {
	o.inbox.Send(debitResult{balance: balance})
}

// RideEnded is relayed by the cab once the ride is over.
func (o *Orchestrator) RideEnded(rideID int) {
	o.inbox.Send(rideOver{rideID: rideID})
}

// Run drives the negotiation until the ride is resolved or ctx is done.
func (o *Orchestrator) Run(ctx context.Context) {
	orchestratorsActive.Inc()
	defer orchestratorsActive.Dec()
	if !o.offerNext() {
		o.inbox.Close()
		return
	}
	o.inbox.Run(ctx, o.handle)
}

func (o *Orchestrator) handle(msg orchMsg) bool {
	switch m := msg.(type) {
	case offerReply:
		return o.onOfferReply(m)
	case debitResult:
		return o.onDebit(m)
	case rideOver:
		return o.onRideOver(m)
	}
	return true
}

// offerNext sends the ride to the next candidate. It returns false once the
// ride has been rejected.
func (o *Orchestrator) offerNext() bool {
	for len(o.candidates) > 0 {
		next := o.candidates[0]
		o.candidates = o.candidates[1:]
		ref, ok := o.dir.LookupCab(next.CabID)
		if !ok {
			o.log.Warnf("ride %d: cab %s not in directory", o.ride.ID, next.CabID)
			continue
		}
		o.current, o.cab = next, ref
		o.offers++
		o.log.Debugf("ride %d: offering to cab %s at %d", o.ride.ID, next.CabID, next.Position)
		ref.RequestRide(o.ride.Source, o.ride.Destination, o.ride.ID, o)
		return true
	}
	o.log.Infof("ride %d: no cab for customer %s", o.ride.ID, o.ride.CustomerID)
	o.finish(events.RideRejected, model.Rejected())
	return false
}

func (o *Orchestrator) onOfferReply(m offerReply) bool {
	if o.phase != phaseOffering || m.cabID != o.current.CabID {
		o.log.Debugf("ride %d: stray reply from cab %s", o.ride.ID, m.cabID)
		return true
	}
	offersTotal.WithLabelValues(m.reply.String()).Inc()
	if m.reply != model.Interested {
		return o.offerNext()
	}
	o.fare = Fare(o.cfg.FarePerUnit, o.current.Position, o.ride.Source, o.ride.Destination)
	payer, ok := o.dir.LookupWallet(o.ride.CustomerID)
	if !ok {
		o.log.Warnf("ride %d: no wallet for customer %s", o.ride.ID, o.ride.CustomerID)
		return o.onDebit(debitResult{balance: wallet.Failed})
	}
	o.phase = phasePaying
	payer.Deduct(o.fare, o)
	return true
}

func (o *Orchestrator) onDebit(m debitResult) bool {
	if o.phase == phaseRiding {
		return true
	}
	if m.balance == wallet.Failed {
		o.cab.RideCancelled(o.ride.ID, o.current.CabID)
		o.log.Infof("ride %d: payment of %d refused for customer %s", o.ride.ID, o.fare, o.ride.CustomerID)
		o.finish(events.RidePaymentFailed, model.Rejected())
		return false
	}
	o.phase = phaseRiding
	cabID := o.current.CabID
	o.cab.RideStarted(o.ride.ID, cabID)
	o.owner.OrchestratorUpdate(model.CacheEntry{
		CabID:       cabID,
		Position:    o.ride.Source,
		Major:       model.SignedIn,
		Minor:       model.GivingRide,
		RideID:      o.ride.ID,
		Source:      o.ride.Source,
		Destination: o.ride.Destination,
	})
	o.log.Infof("ride %d: cab %s for customer %s, fare %d", o.ride.ID, cabID, o.ride.CustomerID, o.fare)
	o.finish(events.RideStarted, model.RideResponse{RideID: o.ride.ID, CabID: cabID, Fare: o.fare})
	return true
}

func (o *Orchestrator) onRideOver(m rideOver) bool {
	if o.phase != phaseRiding || m.rideID != o.ride.ID {
		return true
	}
	o.owner.OrchestratorUpdate(model.AvailableEntry(o.current.CabID, o.ride.Destination))
	o.log.Infof("ride %d: completed by cab %s", o.ride.ID, o.current.CabID)
	o.publish(events.RideCompleted)
	return false
}

func (o *Orchestrator) finish(outcome events.RideOutcome, resp model.RideResponse) {
	if o.replyTo != nil {
		o.replyTo.RideResult(resp)
	}
	o.publish(outcome)
}

func (o *Orchestrator) publish(outcome events.RideOutcome) {
	if o.bus == nil {
		return
	}
	ev := events.RideEvent{
		Orchestrator: o.id,
		Shard:        o.cfg.Shard,
		RideID:       o.ride.ID,
		CustomerID:   o.ride.CustomerID,
		Source:       o.ride.Source,
		Destination:  o.ride.Destination,
		Offers:       o.offers,
		Outcome:      outcome,
		Time:         time.Now(),
	}
	if outcome == events.RideStarted || outcome == events.RideCompleted || outcome == events.RidePaymentFailed {
		ev.CabID = o.current.CabID
		ev.Fare = o.fare
	}
	o.bus.Publish(ev)
}
