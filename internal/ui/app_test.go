package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/fsefeed/internal/datafeed"
	"github.com/five82/fsefeed/internal/planecache"
	"github.com/five82/fsefeed/internal/prefs"
	"github.com/five82/fsefeed/internal/query"
	"github.com/five82/fsefeed/internal/records"
)

type sourceCall struct {
	makeModel string
	cons      query.AircraftConstraints
	force     bool
}

type fakeSource struct {
	planes map[string][]records.Airplane
	err    error
	calls  []sourceCall
}

func (f *fakeSource) PlanesByType(_ context.Context, makeModel string, cons query.AircraftConstraints, force bool) ([]records.Airplane, error) {
	f.calls = append(f.calls, sourceCall{makeModel: makeModel, cons: cons, force: force})
	return query.FilterAircraft(f.planes[makeModel], cons), f.err
}

func (f *fakeSource) CacheState(makeModel string) (planecache.State, bool) {
	rows, ok := f.planes[makeModel]
	if !ok {
		return planecache.State{}, false
	}
	return planecache.State{FetchedAt: time.Unix(0, 0), Valid: true, Size: len(rows)}, true
}

func fleet() map[string][]records.Airplane {
	return map[string][]records.Airplane{
		"C172": {
			{Registration: "N1", Owner: "alice", SinceService: 20 * time.Hour, Rentable: true, RentalDry: 80},
			{Registration: "N2", Owner: "bob", SinceService: 40 * time.Hour, RentedBy: "pilot"},
			{Registration: "N3", Owner: "carol", SinceService: 120 * time.Hour, Rentable: true, RentalDry: 80},
		},
		"TBM 930": {
			{Registration: "N930", Owner: "dave", SinceService: time.Hour, Rentable: true, RentalWet: 900},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive applies msg and feeds any resulting planesMsg back into the model.
// Commands that do not answer promptly, like cursor blinks, are dropped.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case res := <-out:
		if pm, ok := res.(planesMsg); ok {
			next, _ = m.Update(pm)
			m = next.(Model)
		}
	case <-time.After(100 * time.Millisecond):
	}
	return m
}

func newModel(t *testing.T, src *fakeSource, makeModel string) Model {
	t.Helper()
	m := New(Options{
		Source:               src,
		MakeModel:            makeModel,
		MaxHoursSinceService: 95,
		RentableOnly:         true,
		Prefs:                prefs.Default(),
		PrefsPath:            filepath.Join(t.TempDir(), "prefs.toml"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(Model)
	if cmd := m.Init(); cmd != nil && makeModel != "" {
		next, _ = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func TestInit_LoadsStartingTypeWithConfiguredFilters(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "C172")

	require.Len(t, src.calls, 1)
	assert.Equal(t, "C172", src.calls[0].makeModel)
	assert.False(t, src.calls[0].force)
	assert.True(t, src.calls[0].cons.RentableOnly)
	require.NotNil(t, src.calls[0].cons.MaxHoursSinceService)
	assert.Equal(t, 95.0, *src.calls[0].cons.MaxHoursSinceService)

	assert.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "N1", m.table.Rows()[0][0])
	assert.False(t, m.loading)
	assert.True(t, m.hasCache)
}

func TestToggleKeysRequeryWithoutForcing(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "C172")

	m = drive(t, m, runes("f"))
	assert.False(t, m.rentableOnly)
	assert.Len(t, m.table.Rows(), 2, "N3 is over the service limit")

	m = drive(t, m, runes("m"))
	assert.False(t, m.limitHours)
	assert.Len(t, m.table.Rows(), 3)

	require.Len(t, src.calls, 3)
	for _, c := range src.calls {
		assert.False(t, c.force)
	}
	assert.Nil(t, src.calls[2].cons.MaxHoursSinceService)
}

func TestRefreshKeyForcesRefetch(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "C172")

	_ = drive(t, m, runes("r"))
	require.Len(t, src.calls, 2)
	assert.True(t, src.calls[1].force)
}

func TestEditTypeLoadsAndRemembersType(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "")
	assert.True(t, m.editing)
	assert.Empty(t, src.calls)

	m = drive(t, m, runes("T"))
	assert.Equal(t, "T", m.input.Value(), "keys go to the prompt while editing")
	m.input.SetValue("TBM 930")
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.editing)
	assert.Equal(t, "TBM 930", m.makeModel)
	require.Len(t, src.calls, 1)
	assert.Equal(t, "TBM 930", src.calls[0].makeModel)
	assert.Len(t, m.table.Rows(), 1)

	saved, err := prefs.Load(m.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "TBM 930", saved.LastType)
	assert.Equal(t, []string{"TBM 930"}, saved.RecentTypes)
}

func TestEditTypeEscapeKeepsCurrentType(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "C172")

	m = drive(t, m, runes("t"))
	assert.True(t, m.editing)
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.editing)
	assert.Equal(t, "C172", m.makeModel)
	assert.Len(t, src.calls, 1)
}

func TestNextRecentCyclesRememberedTypes(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "C172")
	m.prefs.RecentTypes = []string{"C172", "TBM 930"}

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "TBM 930", m.makeModel)
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "C172", m.makeModel)
}

func TestPartialErrorShowsWarningAndRows(t *testing.T) {
	src := &fakeSource{
		planes: fleet(),
		err:    &datafeed.PartialError{Malformed: []*records.MalformedRecordError{{Row: 4, Column: "TimeLast100hr"}}},
	}
	m := newModel(t, src, "C172")

	assert.Nil(t, m.err)
	assert.Contains(t, m.warning, "1 malformed row(s) dropped")
	assert.Len(t, m.table.Rows(), 1)
	assert.Contains(t, m.View(), "malformed")
}

func TestFetchErrorIsShown(t *testing.T) {
	src := &fakeSource{err: errors.New("feed unavailable")}
	m := newModel(t, src, "C172")

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "feed unavailable")
}

func TestStaleResultIsIgnored(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "C172")

	next, _ := m.Update(planesMsg{makeModel: "TBM 930", planes: fleet()["TBM 930"]})
	m = next.(Model)
	assert.Equal(t, "N1", m.table.Rows()[0][0])
}

func TestOutOfOrderFilterRepliesKeepLatest(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "C172")

	next, first := m.Update(runes("f"))
	m = next.(Model)
	next, second := m.Update(runes("f"))
	m = next.(Model)
	require.NotNil(t, first)
	require.NotNil(t, second)

	latest, stale := second(), first()
	next, _ = m.Update(latest)
	m = next.(Model)
	next, _ = m.Update(stale)
	m = next.(Model)

	assert.True(t, m.rentableOnly)
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "N1", m.table.Rows()[0][0])
	assert.False(t, m.loading)
}

func TestLeavingTypePromptRestoresTableHeight(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "C172")
	full := m.table.Height()

	m = drive(t, m, runes("t"))
	require.True(t, m.editing)
	assert.Equal(t, full-1, m.table.Height())

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.editing)
	assert.Equal(t, full, m.table.Height())

	m = drive(t, m, runes("t"))
	m.input.SetValue("TBM 930")
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editing)
	assert.Equal(t, full, m.table.Height())
	assert.Equal(t, "N930", m.table.Rows()[0][0])
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "C172")
	start := m.theme.Name

	m = drive(t, m, runes("T"))
	assert.Equal(t, NextTheme(start), m.theme.Name)

	saved, err := prefs.Load(m.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, m.theme.Name, saved.Theme)
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	src := &fakeSource{planes: fleet()}
	m := newModel(t, src, "C172")

	m = drive(t, m, runes("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = drive(t, m, runes("x"))
	assert.False(t, m.showHelp)
}

func TestAvailabilityLabels(t *testing.T) {
	assert.Equal(t, availDue, availability(records.Airplane{SinceService: 100 * time.Hour, Rentable: true}))
	assert.Equal(t, availRentable, availability(records.Airplane{Rentable: true}))
	assert.Equal(t, availRented, availability(records.Airplane{RentedBy: "pilot"}))
	assert.Equal(t, availPrivate, availability(records.Airplane{RentedBy: "Not rented."}))
}

func TestPlaneRowsShowRenterForRentedAircraft(t *testing.T) {
	rows := planeRows(fleet()["C172"])
	require.Len(t, rows, 3)
	assert.Equal(t, "alice", rows[0][7])
	assert.Equal(t, "pilot", rows[1][7])
	assert.Equal(t, "$80", rows[0][4])
	assert.Equal(t, "-", rows[0][5])
	assert.True(t, strings.HasPrefix(rows[2][3], "120"))
}
