package dispatch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/cabs/core/cab"
	"github.com/kilianp07/cabs/core/logger"
	"github.com/kilianp07/cabs/internal/eventbus"
)

// Pool holds the N shards and wires them to each other.
type Pool struct {
	shards []*Shard
}

// NewPool builds cfg.Shards shards, each seeded with a signed-out entry per
// cab id.
func NewPool(cfg Config, cabIDs []string, dir Directory, bus eventbus.EventBus, log logger.Logger) *Pool {
	cfg.SetDefaults()
	p := &Pool{shards: make([]*Shard, cfg.Shards)}
	for i := range p.shards {
		p.shards[i] = newShard(i, cabIDs, dir, cfg, bus, log)
	}
	for _, s := range p.shards {
		s.siblings = p.shards
	}
	return p
}

// Len returns the number of shards.
func (p *Pool) Len() int { return len(p.shards) }

// Shard returns shard i as seen by a cab.
func (p *Pool) Shard(i int) cab.Dispatcher { return p.shards[i] }

// Get returns shard i, or nil when out of range.
func (p *Pool) Get(i int) *Shard {
	if i < 0 || i >= len(p.shards) {
		return nil
	}
	return p.shards[i]
}

// All returns every shard in index order.
func (p *Pool) All() []*Shard { return p.shards }

// Run runs every shard until ctx is done.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range p.shards {
		g.Go(func() error { return s.Run(ctx) })
	}
	return g.Wait()
}
