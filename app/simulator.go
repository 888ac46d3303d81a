package app

import (
	"context"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/cabs/core/model"
)

// SimConfig describes a synthetic workload.
type SimConfig struct {
	Rides       int
	Seed        int64
	MaxPosition int
	// Settle bounds each wait for the shard caches to agree.
	Settle time.Duration
}

func (c *SimConfig) setDefaults() {
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.MaxPosition <= 0 {
		c.MaxPosition = 1000
	}
	if c.Settle <= 0 {
		c.Settle = 2 * time.Second
	}
}

// Report summarises a simulation run.
type Report struct {
	Requested    int     `json:"requested"`
	Matched      int     `json:"matched"`
	Rejected     int     `json:"rejected"`
	MeanFare     float64 `json:"mean_fare"`
	StdDevFare   float64 `json:"stddev_fare"`
	MeanDistance float64 `json:"mean_distance"`
	// Divergent counts cabs whose entry still differs between shards once
	// the run has settled.
	Divergent int `json:"divergent"`
}

// Simulate signs every cab in at a random position, requests cfg.Rides rides
// on random shards one after the other and ends each matched ride right away.
// sys must be running.
func Simulate(ctx context.Context, sys *System, cfg SimConfig) (Report, error) {
	cfg.setDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	var rep Report

	for _, id := range sys.cabIDs {
		sys.cabs[id].SignIn(rng.Intn(cfg.MaxPosition))
	}
	if _, err := waitConverged(ctx, sys, cfg.Settle); err != nil {
		return rep, err
	}

	var fares, dists []float64
	for i := 0; i < cfg.Rides && len(sys.custIDs) > 0; i++ {
		cust := sys.custIDs[rng.Intn(len(sys.custIDs))]
		src, dst := rng.Intn(cfg.MaxPosition), rng.Intn(cfg.MaxPosition)
		shard := sys.pool.Get(rng.Intn(sys.pool.Len()))
		rep.Requested++
		resp, err := shard.Ride(ctx, cust, src, dst)
		if err != nil {
			return rep, err
		}
		if !resp.OK() {
			rep.Rejected++
			continue
		}
		rep.Matched++
		fares = append(fares, float64(resp.Fare))
		dists = append(dists, float64(abs(dst-src)))
		if c, ok := sys.cabs[resp.CabID]; ok {
			c.RideEnded(resp.RideID)
		}
	}

	rep.MeanFare, rep.StdDevFare = meanStdDev(fares)
	rep.MeanDistance, _ = meanStdDev(dists)
	div, err := waitConverged(ctx, sys, cfg.Settle)
	if err != nil {
		return rep, err
	}
	rep.Divergent = div
	return rep, nil
}

func meanStdDev(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// waitConverged polls the shards until their caches agree or d elapses, and
// returns the number of cabs still divergent.
func waitConverged(ctx context.Context, sys *System, d time.Duration) (int, error) {
	deadline := time.Now().Add(d)
	for {
		n, err := Divergence(ctx, sys)
		if err != nil || n == 0 || time.Now().After(deadline) {
			return n, err
		}
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Divergence counts the cabs whose cache entry is not identical on every
// shard.
func Divergence(ctx context.Context, sys *System) (int, error) {
	caches := make([]map[string]model.CacheEntry, sys.pool.Len())
	for i, sh := range sys.pool.All() {
		c, err := sh.Cache(ctx)
		if err != nil {
			return 0, err
		}
		caches[i] = c
	}
	n := 0
	for _, id := range sys.cabIDs {
		for _, c := range caches[1:] {
			if c[id] != caches[0][id] {
				n++
				break
			}
		}
	}
	return n, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
