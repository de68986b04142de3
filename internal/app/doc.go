// Package app is the composition root of the fsefeed command.
//
// # Overview
//
// Run loads configuration, installs the slog logger, builds the HTTP feed
// client and the datafeed façade, then hands control to one subcommand.
// Every subcommand goes through the same datafeed.Client, so cache hits,
// partial failures and validation errors behave identically whether they
// come from a one-shot listing or from the interactive browser.
//
// # Startup Sequence
//
//  1. Pick the subcommand from Args[0]; unknown names print usage
//  2. Load ~/.config/fsefeed/config.toml (or -config) with defaults
//  3. Build the slog handler from [log] level and format, writing to Stderr
//  4. Build fse.Client from base_url, access_key and timeout_seconds
//  5. Wrap it in datafeed.Client with fetch_concurrency and validate_types
//  6. Run the subcommand, closing the client (and its cache) on return
//
// # Commands
//
//	jobs    [-type T] [-max-size KG] [-max-pax N] ICAO[,ICAO...]
//	planes  [-max-hours H] [-rentable=false] [-refresh] MAKE MODEL...
//	owned   USERNAME
//	configs [-min-pax N] [SUBSTRING]
//	browse  [MAKE MODEL...]
//
// Flag defaults for jobs and planes come from the [assignments] and
// [aircraft] config tables. Listings are printed with lipgloss tables.
//
// # Error Handling
//
// A *datafeed.PartialError is logged and printed as a warning while the
// rows that did arrive are still rendered; the command succeeds. Any other
// error is returned to main, which prints it and exits non-zero. Usage
// problems return ErrUsage after the usage text has been written.
//
// # Testing
//
// Options.Fetcher swaps the HTTP client for an in-memory fse.Fetcher, so
// commands can be exercised end to end without network access.
package app
