// Package ui provides the Bubble Tea aircraft browser behind `fsefeed browse`.
//
// # Overview
//
// The browser lists every aircraft of one make/model in a bubbles table and
// lets the user narrow the list without spending feed requests. It talks to
// the feed only through PlaneSource, which datafeed.Client implements, so
// every key press other than a refresh is answered from the plane cache.
//
// # Layout
//
//	┌──────────────────────────────────────────────────────────┐
//	│ fsefeed  Cessna 172 Skyhawk  rentable only, <= 95h       │ header
//	│ cached 214 at 3:04PM  37 shown  30 rentable 7 rented     │
//	├──────────────────────────────────────────────────────────┤
//	│ Reg   Loc   Home  Hours  Dry  Wet  Status  Owner         │ table
//	│ ...                                                      │
//	├──────────────────────────────────────────────────────────┤
//	│ partial result: 2 malformed row(s) dropped               │ footer
//	│ t change type • f rentable only • r refetch • ? help     │
//	└──────────────────────────────────────────────────────────┘
//
// # Keys
//
//   - t or /: edit the make/model; enter loads it, esc cancels
//   - tab: jump to the next recently browsed type
//   - f: toggle rentable-only (served from the cache)
//   - m: toggle the hours-since-service limit (served from the cache)
//   - r: invalidate and refetch the current type
//   - T: cycle themes, saved to prefs
//   - ?: help overlay, any key closes it
//   - q or ctrl+c: quit
//
// # Status Column
//
// Each aircraft gets one label: "due" once the 100-hour inspection is
// overdue, otherwise "rentable", "rented" (a pilot holds it) or "private"
// (no rental rate set). The header counts each label in the theme's
// availability colors.
//
// # Preferences
//
// The chosen theme, the last browsed type and up to eight recent types are
// written to the prefs file whenever they change. Save failures are
// ignored; the browser keeps working with in-memory preferences.
package ui
