package events

import (
	"time"

	"github.com/kilianp07/cabs/core/model"
)

// CacheOrigin tells whether a shard produced a cache update itself or
// received it from a sibling.
type CacheOrigin string

const (
	OriginLocal     CacheOrigin = "local"
	OriginBroadcast CacheOrigin = "broadcast"
)

// CacheEvent is emitted when a shard overwrites a cache entry.
type CacheEvent struct {
	Shard  int
	Origin CacheOrigin
	Entry  model.CacheEntry
	Time   time.Time
}
