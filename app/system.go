// Package app wires the actors together and runs them.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/cabs/core/cab"
	"github.com/kilianp07/cabs/core/dispatch"
	"github.com/kilianp07/cabs/core/logger"
	"github.com/kilianp07/cabs/core/model"
	"github.com/kilianp07/cabs/core/wallet"
	"github.com/kilianp07/cabs/internal/eventbus"
)

// System holds one wallet per customer, one cab per cab id and the dispatch
// shards. It is the directory orchestrators use to reach cabs and wallets.
type System struct {
	cabIDs  []string
	custIDs []string
	cabs    map[string]*cab.Cab
	wallets map[string]*wallet.Wallet
	pool    *dispatch.Pool
	log     logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSystem builds every entity of the roster. Nothing runs until Run.
func NewSystem(roster model.Roster, cfg dispatch.Config, bus eventbus.EventBus, log logger.Logger) *System {
	cfg.SetDefaults()
	log = logger.OrNop(log)
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &System{
		cabs:    make(map[string]*cab.Cab, len(roster.Cabs)),
		wallets: make(map[string]*wallet.Wallet, len(roster.Customers)),
		log:     log,
		rng:     rand.New(rand.NewSource(seed)),
	}
	for _, c := range roster.Customers {
		if _, dup := s.wallets[c.ID]; dup {
			continue
		}
		s.wallets[c.ID] = wallet.New(c.ID, c.Balance, log)
		s.custIDs = append(s.custIDs, c.ID)
	}
	for _, id := range roster.Cabs {
		if _, dup := s.cabs[id]; dup {
			continue
		}
		s.cabIDs = append(s.cabIDs, id)
		s.cabs[id] = nil
	}
	s.pool = dispatch.NewPool(cfg, s.cabIDs, s, bus, log)
	for i, id := range s.cabIDs {
		s.cabs[id] = cab.New(id, s.pool, log, cab.WithRand(rand.New(rand.NewSource(seed+int64(i)+1))))
	}
	log.Infof("system: %d cabs, %d customers, %d shards", len(s.cabIDs), len(s.custIDs), s.pool.Len())
	return s
}

// LookupCab implements dispatch.Directory.
func (s *System) LookupCab(id string) (dispatch.CabRef, bool) {
	c, ok := s.cabs[id]
	if !ok || c == nil {
		return nil, false
	}
	return c, true
}

// LookupWallet implements dispatch.Directory.
func (s *System) LookupWallet(custID string) (dispatch.Payer, bool) {
	w, ok := s.wallets[custID]
	if !ok {
		return nil, false
	}
	return w, true
}

// Cab returns the cab with the given id.
func (s *System) Cab(id string) (*cab.Cab, error) {
	c, ok := s.cabs[id]
	if !ok || c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCab, id)
	}
	return c, nil
}

// Wallet returns the wallet of the given customer.
func (s *System) Wallet(custID string) (*wallet.Wallet, error) {
	w, ok := s.wallets[custID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWallet, custID)
	}
	return w, nil
}

// Shard returns shard i.
func (s *System) Shard(i int) (*dispatch.Shard, error) {
	sh := s.pool.Get(i)
	if sh == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShard, i)
	}
	return sh, nil
}

// RandomShard picks one shard uniformly.
func (s *System) RandomShard() *dispatch.Shard {
	s.mu.Lock()
	i := s.rng.Intn(s.pool.Len())
	s.mu.Unlock()
	return s.pool.Get(i)
}

// Shards returns the number of shards.
func (s *System) Shards() int { return s.pool.Len() }

// CabIDs lists cab ids in roster order.
func (s *System) CabIDs() []string { return append([]string(nil), s.cabIDs...) }

// CustomerIDs lists customer ids in roster order.
func (s *System) CustomerIDs() []string { return append([]string(nil), s.custIDs...) }

// Run runs every wallet, cab and shard until ctx is done.
func (s *System) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range s.custIDs {
		w := s.wallets[id]
		g.Go(func() error { return w.Run(ctx) })
	}
	for _, id := range s.cabIDs {
		c := s.cabs[id]
		g.Go(func() error { return c.Run(ctx) })
	}
	g.Go(func() error { return s.pool.Run(ctx) })
	return g.Wait()
}

// ResetAll resets every cab, then every wallet. Cabs that were giving a ride
// end it first, so orchestrators still waiting on them terminate.
func (s *System) ResetAll(ctx context.Context) error {
	for _, id := range s.cabIDs {
		if _, err := s.cabs[id].Reset(ctx); err != nil {
			return fmt.Errorf("reset cab %s: %w", id, err)
		}
	}
	for _, id := range s.custIDs {
		if _, err := s.wallets[id].Reset(ctx); err != nil {
			return fmt.Errorf("reset wallet %s: %w", id, err)
		}
	}
	return nil
}
