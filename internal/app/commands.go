package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/five82/fsefeed/internal/datafeed"
	"github.com/five82/fsefeed/internal/prefs"
	"github.com/five82/fsefeed/internal/query"
	"github.com/five82/fsefeed/internal/records"
	"github.com/five82/fsefeed/internal/ui"
)

func (e *env) flagSet(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "usage: fsefeed %s [flags] %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrUsage
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// reportPartial logs a partial result and swallows it so the command still
// succeeds with what it got.
func (e *env) reportPartial(err error) error {
	var partial *datafeed.PartialError
	if errors.As(err, &partial) {
		e.logger.Warn("partial result", "failed", partial.FailedSubjects(), "malformed", len(partial.Malformed))
		fmt.Fprintf(e.stderr, "warning: %v\n", partial)
		return nil
	}
	return err
}

func runJobs(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("jobs", "ICAO [ICAO...]")
	maxSize := fs.Int("max-size", e.cfg.Assignments.MaxCargoKg, "largest cargo job in kg")
	maxPax := fs.Int("max-pax", e.cfg.Assignments.MaxPax, "largest passenger job")
	tripType := fs.String("type", string(query.TripAny), "trip type: "+joinTripTypes())
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	icaos := splitICAOs(fs.Args())
	if len(icaos) == 0 {
		fs.Usage()
		return ErrUsage
	}
	tt, err := query.ParseTripType(*tripType)
	if err != nil {
		return err
	}

	rows, err := e.client.Assignments(ctx, icaos, query.AssignmentConstraints{
		MaxSize:  query.Int(*maxSize),
		MaxPax:   query.Int(*maxPax),
		TripType: tt,
	})
	var partial *datafeed.PartialError
	if errors.As(err, &partial) && len(partial.Fetch) >= countUnique(icaos) {
		return fmt.Errorf("no airport could be fetched: %w", err)
	}
	if err := e.reportPartial(err); err != nil {
		return err
	}
	renderAssignments(e.stdout, rows)
	return nil
}

func runPlanes(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("planes", "MAKE/MODEL")
	maxHours := fs.Float64("max-hours", e.cfg.Aircraft.MaxHoursSinceService, "hours since the 100-hour inspection, 0 disables")
	rentable := fs.Bool("rentable", e.cfg.Aircraft.RentableOnly, "only aircraft that can be rented now")
	refresh := fs.Bool("refresh", false, "ignore any cached listing and refetch")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	makeModel := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if makeModel == "" {
		fs.Usage()
		return ErrUsage
	}
	// 0 disables the limit; anything else, negatives included, is validated.
	cons := query.AircraftConstraints{RentableOnly: *rentable}
	if *maxHours != 0 {
		cons.MaxHoursSinceService = query.Float(*maxHours)
	}

	rows, err := e.client.PlanesByType(ctx, makeModel, cons, *refresh)
	if err := e.reportPartial(err); err != nil {
		return err
	}
	renderAirplanes(e.stdout, rows)
	return nil
}

func runOwned(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("owned", "USERNAME")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	username := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if username == "" {
		fs.Usage()
		return ErrUsage
	}

	rows, err := e.client.PlanesByOwner(ctx, username)
	if err := e.reportPartial(err); err != nil {
		return err
	}
	renderAirplanes(e.stdout, rows)
	return nil
}

func runConfigs(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("configs", "[SUBSTRING]")
	minPax := fs.Int("min-pax", 0, "only types that seat at least this many passengers")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	needle := strings.ToLower(strings.TrimSpace(strings.Join(fs.Args(), " ")))

	cfgs, err := e.client.AircraftConfigs(ctx, false)
	if err := e.reportPartial(err); err != nil {
		return err
	}
	out := make([]records.AircraftConfig, 0, len(cfgs))
	for _, c := range cfgs {
		if needle != "" && !strings.Contains(strings.ToLower(c.MakeModel), needle) {
			continue
		}
		if c.MaxPassengers() < int64(*minPax) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MakeModel < out[j].MakeModel })
	renderConfigs(e.stdout, out)
	return nil
}

func runBrowse(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("browse", "[MAKE/MODEL]")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	userPrefs, _ := prefs.Load(e.prefsPath)
	makeModel := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if makeModel == "" {
		makeModel = userPrefs.LastType
	}
	prefsPath := e.prefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return ui.Run(ui.Options{
		Context:              ctx,
		Source:               e.client,
		MakeModel:            makeModel,
		MaxHoursSinceService: e.cfg.Aircraft.MaxHoursSinceService,
		RentableOnly:         e.cfg.Aircraft.RentableOnly,
		Prefs:                userPrefs,
		PrefsPath:            prefsPath,
	})
}

// splitICAOs accepts ICAOs as separate arguments or comma separated.
func splitICAOs(args []string) []string {
	var out []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// countUnique counts ICAOs the way the feed client dedupes them.
func countUnique(icaos []string) int {
	seen := make(map[string]struct{}, len(icaos))
	for _, icao := range icaos {
		seen[strings.ToUpper(icao)] = struct{}{}
	}
	return len(seen)
}

func joinTripTypes() string {
	types := query.TripTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
