package datafeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/five82/fsefeed/internal/fse"
	"github.com/five82/fsefeed/internal/planecache"
	"github.com/five82/fsefeed/internal/query"
	"github.com/five82/fsefeed/internal/records"
)

// Options configure a Client.
type Options struct {
	// Concurrency bounds parallel ICAO fetches. Values below 2 fetch sequentially.
	Concurrency int
	// ValidateTypes checks make/model keys against the aircraft configs feed
	// before fetching aircraft.
	ValidateTypes bool
	Logger        *slog.Logger
}

// Client is the only component that decides when the feed is called.
type Client struct {
	fetcher     fse.Fetcher
	cache       *planecache.Cache
	loads       singleflight.Group
	concurrency int
	validate    bool
	logger      *slog.Logger

	configMu sync.Mutex
	configs  []records.AircraftConfig
}

// New builds a Client with an empty plane cache.
func New(fetcher fse.Fetcher, opts Options) *Client {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		fetcher:     fetcher,
		cache:       planecache.New(),
		concurrency: concurrency,
		validate:    opts.ValidateTypes,
		logger:      logger,
	}
}

// Close drops every cached listing.
func (c *Client) Close() {
	c.cache.InvalidateAll()
	c.configMu.Lock()
	c.configs = nil
	c.configMu.Unlock()
}

type icaoResult struct {
	rows      []records.Assignment
	malformed []*records.MalformedRecordError
	err       *fse.FetchError
}

// Assignments fetches the jobs departing each ICAO and filters them. ICAOs are
// fetched once each, results keep the input ICAO order, and a failing ICAO
// does not discard the others: it is reported through a *PartialError
// returned alongside the rows that were fetched.
func (c *Client) Assignments(ctx context.Context, icaos []string, cons query.AssignmentConstraints) ([]records.Assignment, error) {
	if err := cons.Validate(); err != nil {
		return nil, err
	}
	unique, err := normalizeICAOs(icaos)
	if err != nil {
		return nil, err
	}
	if c.fetcher == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}

	results := make([]icaoResult, len(unique))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, icao := range unique {
		i, icao := i, icao
		g.Go(func() error {
			results[i] = c.fetchAssignments(ctx, icao)
			return nil
		})
	}
	_ = g.Wait()

	partial := &PartialError{}
	var all []records.Assignment
	for _, r := range results {
		if r.err != nil {
			partial.Fetch = append(partial.Fetch, r.err)
			continue
		}
		all = append(all, r.rows...)
		partial.Malformed = append(partial.Malformed, r.malformed...)
	}
	out := query.FilterAssignments(all, cons)
	c.logger.Debug("assignments fetched",
		"icaos", len(unique),
		"failed", len(partial.Fetch),
		"rows", len(all),
		"matched", len(out),
	)
	return out, partial.orNil()
}

func (c *Client) fetchAssignments(ctx context.Context, icao string) icaoResult {
	rows, err := c.fetcher.Fetch(ctx, fse.AssignmentsByICAO, map[string]string{fse.ParamICAO: icao})
	if err != nil {
		c.logger.Warn("assignment fetch failed", "icao", icao, "error", err)
		return icaoResult{err: asFetchError(err, fse.AssignmentsByICAO, icao)}
	}
	parsed, malformed := records.ParseAll(rows, records.ParseAssignment)
	c.logMalformed(fse.AssignmentsByICAO, icao, malformed)
	return icaoResult{rows: parsed, malformed: malformed}
}

// PlanesByType serves aircraft of one make/model from the cache, fetching only
// on a miss or when forceRefresh is set, and then filters them.
func (c *Client) PlanesByType(ctx context.Context, makeModel string, cons query.AircraftConstraints, forceRefresh bool) ([]records.Airplane, error) {
	if err := cons.Validate(); err != nil {
		return nil, err
	}
	key, err := typeKey(makeModel)
	if err != nil {
		return nil, err
	}
	if c.fetcher == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}
	if c.validate {
		if err := c.checkType(ctx, key); err != nil {
			return nil, err
		}
	}

	if forceRefresh {
		c.cache.Invalidate(key)
		c.loads.Forget(key)
	}

	var partial *PartialError
	rows, ok := c.cache.Get(key)
	if ok {
		c.logger.Debug("plane cache hit", "make_model", key, "rows", len(rows))
	} else {
		c.logger.Debug("plane cache miss", "make_model", key)
		stored, p, err := c.load(ctx, key)
		if err != nil {
			return nil, err
		}
		partial = p
		// Serve what the cache now holds so the filter sees the committed bucket.
		if rows, ok = c.cache.Get(key); !ok {
			rows = stored
		}
	}
	return query.FilterAircraft(rows, cons), partial.orNil()
}

type loadResult struct {
	rows    []records.Airplane
	partial *PartialError
}

// load fetches one make/model and replaces its bucket. Concurrent loads of the
// same key share one fetch. The shared fetch is detached from the caller that
// started it, bounded by the fetcher's own timeout, and each caller stops
// waiting when its own ctx is done.
func (c *Client) load(ctx context.Context, key string) ([]records.Airplane, *PartialError, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(key, func() (any, error) {
		rows, err := c.fetcher.Fetch(fetchCtx, fse.AircraftByMakeModel, map[string]string{fse.ParamMakeModel: key})
		if err != nil {
			c.logger.Warn("aircraft fetch failed", "make_model", key, "error", err)
			return nil, asFetchError(err, fse.AircraftByMakeModel, key)
		}
		planes, malformed := records.ParseAll(rows, records.ParseAirplane)
		c.logMalformed(fse.AircraftByMakeModel, key, malformed)

		n := c.cache.Put(key, planes)
		c.logger.Debug("plane cache populated", "make_model", key, "rows", n, "dropped", len(malformed))

		stored, _ := c.cache.Get(key)
		res := loadResult{rows: stored}
		if len(malformed) > 0 {
			res.partial = &PartialError{Malformed: malformed}
		}
		return res, nil
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		return nil, nil, r.Err
	}
	res := r.Val.(loadResult)
	return res.rows, res.partial, nil
}

// PlanesByOwner fetches the aircraft owned by username. Owner listings are
// never cached.
func (c *Client) PlanesByOwner(ctx context.Context, username string) ([]records.Airplane, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return nil, &query.InvalidQueryError{Field: "username", Value: username, Reason: "must not be empty"}
	}
	if c.fetcher == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}

	rows, err := c.fetcher.Fetch(ctx, fse.AircraftByOwner, map[string]string{fse.ParamOwner: name})
	if err != nil {
		return nil, asFetchError(err, fse.AircraftByOwner, name)
	}
	planes, malformed := records.ParseAll(rows, records.ParseAirplane)
	c.logMalformed(fse.AircraftByOwner, name, malformed)

	partial := &PartialError{Malformed: malformed}
	return query.FilterByOwner(planes, name), partial.orNil()
}

// RefreshPlaneCache discards and refetches the bucket for makeModel, or every
// populated bucket when makeModel is empty.
func (c *Client) RefreshPlaneCache(ctx context.Context, makeModel string) error {
	if c.fetcher == nil {
		return fmt.Errorf("fetcher is nil")
	}
	var keys []string
	if strings.TrimSpace(makeModel) == "" {
		keys = c.cache.Keys()
		c.cache.InvalidateAll()
	} else {
		key, err := typeKey(makeModel)
		if err != nil {
			return err
		}
		keys = []string{key}
		c.cache.Invalidate(key)
	}

	partial := &PartialError{}
	for _, key := range keys {
		c.loads.Forget(key)
		_, p, err := c.load(ctx, key)
		if err != nil {
			var fetchErr *fse.FetchError
			if len(keys) == 1 || !errors.As(err, &fetchErr) {
				return err
			}
			partial.Fetch = append(partial.Fetch, fetchErr)
			continue
		}
		if p != nil {
			partial.Malformed = append(partial.Malformed, p.Malformed...)
		}
	}
	c.logger.Info("plane cache refreshed", "keys", len(keys), "failed", len(partial.Fetch))
	return partial.orNil()
}

// AircraftConfigs returns the aircraft type table. It is fetched once per
// client and again only when forceRefresh is set.
func (c *Client) AircraftConfigs(ctx context.Context, forceRefresh bool) ([]records.AircraftConfig, error) {
	c.configMu.Lock()
	defer c.configMu.Unlock()

	if c.configs != nil && !forceRefresh {
		return cloneConfigs(c.configs), nil
	}
	if c.fetcher == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}
	rows, err := c.fetcher.Fetch(ctx, fse.AircraftConfigs, nil)
	if err != nil {
		return nil, asFetchError(err, fse.AircraftConfigs, "")
	}
	configs, malformed := records.ParseAll(rows, records.ParseAircraftConfig)
	c.logMalformed(fse.AircraftConfigs, "", malformed)
	c.configs = configs

	partial := &PartialError{Malformed: malformed}
	return cloneConfigs(configs), partial.orNil()
}

// CacheState reports the bucket metadata for makeModel.
func (c *Client) CacheState(makeModel string) (planecache.State, bool) {
	return c.cache.State(strings.TrimSpace(makeModel))
}

// CachedTypes lists the make/models currently held in the cache.
func (c *Client) CachedTypes() []string {
	return c.cache.Keys()
}

func (c *Client) checkType(ctx context.Context, key string) error {
	configs, err := c.AircraftConfigs(ctx, false)
	var partial *PartialError
	if err != nil && !errors.As(err, &partial) {
		return fmt.Errorf("validate aircraft type: %w", err)
	}
	for _, cfg := range configs {
		if cfg.MakeModel == key {
			return nil
		}
	}
	return &query.InvalidQueryError{Field: "makeModel", Value: key, Reason: "not a known aircraft type"}
}

func (c *Client) logMalformed(endpoint fse.Endpoint, subject string, malformed []*records.MalformedRecordError) {
	for _, m := range malformed {
		c.logger.Warn("dropped malformed feed row",
			"endpoint", endpoint.String(),
			"subject", subject,
			"row", m.Row,
			"column", m.Column,
			"error", m.Err,
		)
	}
}

func normalizeICAOs(icaos []string) ([]string, error) {
	if len(icaos) == 0 {
		return nil, &query.InvalidQueryError{Field: "icaos", Value: icaos, Reason: "at least one ICAO required"}
	}
	seen := make(map[string]struct{}, len(icaos))
	out := make([]string, 0, len(icaos))
	for _, raw := range icaos {
		icao := strings.ToUpper(strings.TrimSpace(raw))
		if icao == "" {
			return nil, &query.InvalidQueryError{Field: "icaos", Value: icaos, Reason: "empty ICAO"}
		}
		if _, dup := seen[icao]; dup {
			continue
		}
		seen[icao] = struct{}{}
		out = append(out, icao)
	}
	return out, nil
}

func typeKey(makeModel string) (string, error) {
	key := strings.TrimSpace(makeModel)
	if key == "" {
		return "", &query.InvalidQueryError{Field: "makeModel", Value: makeModel, Reason: "must not be empty"}
	}
	return key, nil
}

func asFetchError(err error, endpoint fse.Endpoint, subject string) *fse.FetchError {
	var fetchErr *fse.FetchError
	if errors.As(err, &fetchErr) {
		if fetchErr.Subject == "" {
			fetchErr.Subject = subject
		}
		return fetchErr
	}
	return &fse.FetchError{Endpoint: endpoint, Subject: subject, Err: err}
}

func cloneConfigs(configs []records.AircraftConfig) []records.AircraftConfig {
	dup := make([]records.AircraftConfig, len(configs))
	copy(dup, configs)
	return dup
}
