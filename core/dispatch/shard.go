package dispatch

import (
	"context"
	"maps"
	"strconv"
	"sync"
	"time"

	"github.com/kilianp07/cabs/core/events"
	"github.com/kilianp07/cabs/core/logger"
	"github.com/kilianp07/cabs/core/model"
	"github.com/kilianp07/cabs/internal/eventbus"
	"github.com/kilianp07/cabs/internal/mailbox"
)

type shardMsg interface{ isShardMsg() }

type cabSignedIn struct {
	cabID string
	pos   int
}

type cabSignedOut struct{ cabID string }

type cacheUpdate struct {
	entry  model.CacheEntry
	origin events.CacheOrigin
}

type rideRequest struct {
	custID      string
	source      int
	destination int
	replyTo     RideReceiver
}

type cacheQuery struct {
	reply chan<- map[string]model.CacheEntry
}

func (cabSignedIn) isShardMsg()  {}
func (cabSignedOut) isShardMsg() {}
func (cacheUpdate) isShardMsg()  {}
func (rideRequest) isShardMsg()  {}
func (cacheQuery) isShardMsg()   {}

// Shard is one replica of the dispatch service. It keeps its own copy of
// every cab's state, spawns orchestrators for ride requests and fans its
// local changes out to the other shards.
type Shard struct {
	index  int
	step   int
	nextID int
	cache  map[string]model.CacheEntry

	siblings []*Shard
	dir      Directory
	cfg      Config
	bus      eventbus.EventBus
	log      logger.Logger
	inbox    *mailbox.Mailbox[shardMsg]

	// set by Run, used to start orchestrators
	ctx  context.Context
	orch sync.WaitGroup
}

func newShard(index int, cabIDs []string, dir Directory, cfg Config, bus eventbus.EventBus, log logger.Logger) *Shard {
	s := &Shard{
		index:  index,
		step:   rideIDStep(cfg.Shards),
		nextID: index + 1,
		cache:  make(map[string]model.CacheEntry, len(cabIDs)),
		dir:    dir,
		cfg:    cfg,
		bus:    bus,
		log:    logger.OrNop(log),
		inbox:  mailbox.New[shardMsg](),
	}
	for _, id := range cabIDs {
		s.cache[id] = model.SignedOutEntry(id)
	}
	return s
}

// Index returns the position of the shard in its pool.
func (s *Shard) Index() int { return s.index }

// Run processes messages until ctx is done, then waits for the
// orchestrators it started.
func (s *Shard) Run(ctx context.Context) error {
	s.ctx = ctx
	s.inbox.Run(ctx, s.handle)
	s.orch.Wait()
	return nil
}

// CabSignedIn records that cabID became available at pos and tells the
// other shards.
func (s *Shard) CabSignedIn(cabID string, pos int) {
	s.inbox.Send(cabSignedIn{cabID: cabID, pos: pos})
}

// CabSignedOut records that cabID left and tells the other shards.
func (s *Shard) CabSignedOut(cabID string) {
	s.inbox.Send(cabSignedOut{cabID: cabID})
}

// OrchestratorUpdate applies a delta reported by an orchestrator and
// broadcasts it.
func (s *Shard) OrchestratorUpdate(entry model.CacheEntry) {
	s.inbox.Send(cacheUpdate{entry: entry, origin: events.OriginLocal})
}

// ApplyCacheUpdate overwrites the replica of entry.CabID without
// broadcasting. Siblings call it.
func (s *Shard) ApplyCacheUpdate(entry model.CacheEntry) {
	s.inbox.Send(cacheUpdate{entry: entry, origin: events.OriginBroadcast})
}

// RequestRide starts matching a ride. Requests with a negative coordinate
// are dropped without an answer.
func (s *Shard) RequestRide(custID string, source, destination int, replyTo RideReceiver) {
	s.inbox.Send(rideRequest{custID: custID, source: source, destination: destination, replyTo: replyTo})
}

// Ride requests a ride and waits for the answer. Invalid coordinates are
// answered with the rejection sentinel straight away.
func (s *Shard) Ride(ctx context.Context, custID string, source, destination int) (model.RideResponse, error) {
	if !model.ValidLocations(source, destination) {
		return model.Rejected(), nil
	}
	ch := make(chan model.RideResponse, 1)
	if !s.inbox.Send(rideRequest{custID: custID, source: source, destination: destination, replyTo: ChanReceiver(ch)}) {
		return model.Rejected(), mailbox.ErrClosed
	}
	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		return model.Rejected(), ctx.Err()
	}
}

// Cache returns a copy of the shard's replica.
func (s *Shard) Cache(ctx context.Context) (map[string]model.CacheEntry, error) {
	return mailbox.Ask(ctx, s.inbox, func(r chan<- map[string]model.CacheEntry) shardMsg {
		return cacheQuery{reply: r}
	})
}

func (s *Shard) handle(msg shardMsg) bool {
	switch m := msg.(type) {
	case cabSignedIn:
		s.applyLocal(model.AvailableEntry(m.cabID, m.pos))
	case cabSignedOut:
		s.applyLocal(model.SignedOutEntry(m.cabID))
	case cacheUpdate:
		if m.origin == events.OriginLocal {
			s.applyLocal(m.entry)
		} else {
			s.apply(m.entry, events.OriginBroadcast)
		}
	case rideRequest:
		s.onRideRequest(m)
	case cacheQuery:
		m.reply <- maps.Clone(s.cache)
	}
	return true
}

func (s *Shard) applyLocal(entry model.CacheEntry) {
	if !s.apply(entry, events.OriginLocal) {
		return
	}
	for _, sib := range s.siblings {
		if sib == s {
			continue
		}
		sib.ApplyCacheUpdate(entry)
		broadcastsTotal.Inc()
	}
}

func (s *Shard) apply(entry model.CacheEntry, origin events.CacheOrigin) bool {
	if _, ok := s.cache[entry.CabID]; !ok {
		s.log.Debugf("shard %d: update for unknown cab %s ignored", s.index, entry.CabID)
		return false
	}
	s.cache[entry.CabID] = entry
	s.log.Debugw("cache update", map[string]any{
		"shard":  s.index,
		"cab":    entry.CabID,
		"origin": string(origin),
		"major":  entry.Major.String(),
		"minor":  entry.Minor.String(),
	})
	if s.bus != nil {
		s.bus.Publish(events.CacheEvent{Shard: s.index, Origin: origin, Entry: entry, Time: time.Now()})
	}
	return true
}

func (s *Shard) onRideRequest(m rideRequest) {
	if !model.ValidLocations(m.source, m.destination) {
		s.log.Debugf("shard %d: ride %d->%d for %s dropped", s.index, m.source, m.destination, m.custID)
		return
	}
	s.nextID += s.step
	ride := model.Ride{ID: s.nextID, CustomerID: m.custID, Source: m.source, Destination: m.destination}
	rideRequests.WithLabelValues(strconv.Itoa(s.index)).Inc()

	o := NewOrchestrator(ride, maps.Clone(s.cache), OrchestratorConfig{
		Shard:         s.index,
		MaxCandidates: s.cfg.MaxCandidates,
		FarePerUnit:   s.cfg.FarePerUnit,
	}, s, s.dir, m.replyTo, s.bus, s.log)

	s.orch.Add(1)
	go func() {
		defer s.orch.Done()
		o.Run(s.ctx)
	}()
}
