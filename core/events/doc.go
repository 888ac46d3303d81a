// Package events defines the dispatch related events emitted on the event bus.
//
// Available event types:
//   - RideEvent: outcome of one ride attempt, and later its completion
//   - CacheEvent: a shard overwrote its replica of a cab
package events
