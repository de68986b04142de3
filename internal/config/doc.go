// Package config loads fsefeed's TOML configuration.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/fsefeed/config.toml
//  3. If the file does not exist, use Default()
//  4. Keys missing from the file keep their defaults
//
// The FSEFEED_ACCESS_KEY environment variable replaces access_key in every
// case, so the key can stay out of the file.
//
// # TOML Format
//
//	access_key = "0123456789ABCDEF"
//	base_url = "https://server.fseconomy.net/data"
//	timeout_seconds = 30
//	fetch_concurrency = 1
//	validate_types = false
//
//	[log]
//	level = "info"   # debug, info, warn, error
//	format = "text"  # text or json
//
//	[aircraft]
//	max_hours_since_service = 95
//	rentable_only = true
//
//	[assignments]
//	max_cargo_kg = 100000
//	max_pax = 1000
//
// The [aircraft] and [assignments] tables only seed command-line defaults;
// flags still override them per invocation.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors other than os.ErrNotExist
//   - TOML syntax errors
//   - Values rejected by Validate
//
// An empty access key is accepted here. Commands that talk to the feed
// report it when they build the HTTP client.
package config
