// Package fse provides an HTTP client for the FSEconomy data feed.
//
// # Overview
//
// The feed is a single keyed URL that answers CSV for a handful of query
// shapes. This package turns one logical request into one GET and returns
// the response as header-keyed rows. It knows nothing about assignments or
// aircraft as types; coercion into entities lives in package records.
//
// # Endpoints
//
//   - AssignmentsByICAO: query=icao, search=jobsfrom, icaos=<ICAO>
//   - AircraftByMakeModel: query=aircraft, search=makemodel, makemodel=<type>
//   - AircraftByOwner: query=aircraft, search=ownername, ownername=<user>
//   - AircraftConfigs: query=aircraft, search=configs
//
// Every request also carries userkey and format=csv.
//
// # Error Handling
//
// All request failures come back as *FetchError:
//
//   - Transport errors: connection refused, timeout, DNS failure
//   - HTTP errors: any non-2xx status
//   - Feed errors: a 2xx body that starts with <Error>
//   - CSV errors: a body the csv reader cannot tokenize
//
// The access key is stripped from transport error text.
//
// # Usage
//
//	client, err := fse.NewClient("", accessKey, 30*time.Second)
//	if err != nil {
//		return err
//	}
//	rows, err := client.Fetch(ctx, fse.AssignmentsByICAO, map[string]string{fse.ParamICAO: "KJFK"})
//
// # Design Rationale
//
// The package is intentionally minimal:
//   - No caching (the datafeed package decides when to hit the network)
//   - No retries (callers choose the retry policy)
//   - No typed parsing (rows stay loosely typed until package records)
package fse
