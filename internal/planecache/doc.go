// Package planecache stores aircraft listings fetched from the feed.
//
// # Overview
//
// A Cache holds zero or more buckets, each keyed by the query dimension that
// populated it (in practice the make/model string). A bucket always holds the
// complete answer of the last successful fetch for its key, never a union of
// several fetches.
//
// # Semantics
//
//	// First population
//	cache.Put("Cessna 172 Skyhawk", planes)
//	→ bucket replaced wholesale
//	→ State.FetchedAt = now, State.Valid = true
//
//	// Lookup
//	rows, ok := cache.Get("Cessna 172 Skyhawk")
//	→ ok == false means the key was never populated (a miss, not an error)
//
//	// Forced update
//	cache.Invalidate("Cessna 172 Skyhawk")
//	→ next Get is a miss; other keys are untouched
//
// The package has no staleness policy and performs no I/O. Deciding when to
// refetch belongs to the caller (package datafeed).
//
// # Concurrency Model
//
// A single sync.RWMutex guards the bucket map. Put and Invalidate swap a whole
// bucket under the write lock, so readers never observe a half-replaced
// bucket. Get returns a copy so callers may filter or mutate freely.
package planecache
