package dispatch

import (
	"sort"

	"github.com/kilianp07/cabs/core/model"
)

// Candidates returns the bookable entries of snapshot closest to source,
// at most limit of them. Ties keep map iteration order, so they are not
// deterministic.
func Candidates(snapshot map[string]model.CacheEntry, source, limit int) []model.CacheEntry {
	out := make([]model.CacheEntry, 0, len(snapshot))
	for _, e := range snapshot {
		if e.Bookable() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return distance(out[i].Position, source) < distance(out[j].Position, source)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Fare prices a ride: the approach to the pick-up plus the ride itself.
func Fare(perUnit, cabPos, source, destination int) int {
	return perUnit * (distance(cabPos, source) + distance(source, destination))
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
