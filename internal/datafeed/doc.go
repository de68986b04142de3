// Package datafeed is the query façade over the FSEconomy data feed.
//
// A Client composes an fse.Fetcher, a planecache.Cache and the filters in
// package query into four operations:
//
//   - Assignments: always fetched, one request per unique ICAO, partial
//     results when some ICAOs fail
//   - PlanesByType: served from the cache, fetched on a miss or on request
//   - PlanesByOwner: always fetched, exact owner match
//   - RefreshPlaneCache: caller-driven invalidation and refetch
//
// There is no time-based expiry. Cached aircraft stay until the caller asks
// for a refresh or closes the client, which keeps feed usage under the
// caller's control.
//
// Constraint validation happens before any cache or network access and
// fails with *query.InvalidQueryError. Fetch failures surface as
// *fse.FetchError; dropped rows and per-ICAO failures that still leave a
// usable result come back as *PartialError next to that result.
package datafeed
