package dispatch

import "fmt"

const (
	DefaultShards        = 10
	DefaultMaxCandidates = 3
	DefaultFarePerUnit   = 10
)

// Config defines dispatch-related settings.
type Config struct {
	Shards        int   `json:"shards"`
	MaxCandidates int   `json:"max_candidates"`
	FarePerUnit   int   `json:"fare_per_unit"`
	Seed          int64 `json:"seed"`
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Shards == 0 {
		c.Shards = DefaultShards
	}
	if c.MaxCandidates == 0 {
		c.MaxCandidates = DefaultMaxCandidates
	}
	if c.FarePerUnit == 0 {
		c.FarePerUnit = DefaultFarePerUnit
	}
}

// Validate checks the configuration after defaults were applied.
func (c Config) Validate() error {
	if c.Shards < 1 {
		return fmt.Errorf("dispatch.shards must be >= 1, got %d", c.Shards)
	}
	if c.MaxCandidates < 1 {
		return fmt.Errorf("dispatch.max_candidates must be >= 1, got %d", c.MaxCandidates)
	}
	if c.FarePerUnit < 0 {
		return fmt.Errorf("dispatch.fare_per_unit must be >= 0, got %d", c.FarePerUnit)
	}
	return nil
}

// rideIDStep keeps every shard's ride ids in their own residue class. It is
// 10 for up to 10 shards and grows with the pool beyond that.
func rideIDStep(shards int) int {
	return max(10, shards)
}
