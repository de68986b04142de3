package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/fsefeed/internal/datafeed"
	"github.com/five82/fsefeed/internal/planecache"
	"github.com/five82/fsefeed/internal/prefs"
	"github.com/five82/fsefeed/internal/query"
	"github.com/five82/fsefeed/internal/records"
)

// PlaneSource is the part of datafeed.Client the browser uses.
type PlaneSource interface {
	PlanesByType(ctx context.Context, makeModel string, cons query.AircraftConstraints, forceRefresh bool) ([]records.Airplane, error)
	CacheState(makeModel string) (planecache.State, bool)
}

var _ PlaneSource = (*datafeed.Client)(nil)

// Options configures the browser.
type Options struct {
	Context context.Context
	Source  PlaneSource
	// MakeModel is loaded on start. Empty opens the type prompt.
	MakeModel            string
	MaxHoursSinceService float64
	RentableOnly         bool
	Prefs                prefs.Prefs
	PrefsPath            string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	source    PlaneSource
	prefs     prefs.Prefs
	prefsPath string

	keys     keyMap
	help     help.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	makeModel    string
	maxHours     float64
	limitHours   bool
	rentableOnly bool

	table   table.Model
	input   textinput.Model
	editing bool

	planes   []records.Airplane
	loadSeq  int
	loading  bool
	err      error
	warning  string
	cache    planecache.State
	hasCache bool
}

// planesMsg carries the result of one PlanesByType call.
type planesMsg struct {
	seq       int
	makeModel string
	planes    []records.Airplane
	err       error
}

const (
	headerHeight = 2
	footerHeight = 2
)

// New creates the browser model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	input := textinput.New()
	input.Prompt = "type> "
	input.Placeholder = "Cessna 172 Skyhawk"
	input.CharLimit = 80

	m := Model{
		ctx:          ctx,
		source:       opts.Source,
		prefs:        opts.Prefs,
		prefsPath:    opts.PrefsPath,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		theme:        GetTheme(opts.Prefs.Theme),
		makeModel:    strings.TrimSpace(opts.MakeModel),
		maxHours:     opts.MaxHoursSinceService,
		limitHours:   opts.MaxHoursSinceService > 0,
		rentableOnly: opts.RentableOnly,
		input:        input,
	}
	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
	)
	m.applyTheme()

	if m.makeModel == "" {
		m.editing = true
		m.input.Focus()
	} else {
		m.loading = opts.Source != nil
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.makeModel == "" {
		return textinput.Blink
	}
	return m.fetch(false)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.resizeTable()
		return m, nil

	case planesMsg:
		m.handlePlanes(msg)
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBody(),
		m.renderFooter(),
	)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.editing {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.applyTheme()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.load(true)
		return m, cmd

	case key.Matches(msg, m.keys.ToggleRentable):
		m.rentableOnly = !m.rentableOnly
		cmd := m.load(false)
		return m, cmd

	case key.Matches(msg, m.keys.ToggleMaxHours):
		if m.maxHours > 0 {
			m.limitHours = !m.limitHours
		}
		cmd := m.load(false)
		return m, cmd

	case key.Matches(msg, m.keys.EditType):
		m.editing = true
		m.input.SetValue(m.makeModel)
		m.input.CursorEnd()
		m.resizeTable()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.NextRecent):
		if next := m.nextRecent(); next != "" {
			return m.selectType(next)
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.table.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.table.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		m.editing = false
		m.input.Blur()
		m.resizeTable()
		return m.selectType(value)

	case key.Matches(msg, m.keys.Cancel):
		if m.makeModel == "" {
			return m, nil
		}
		m.editing = false
		m.input.Blur()
		m.resizeTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) selectType(makeModel string) (tea.Model, tea.Cmd) {
	m.makeModel = makeModel
	m.planes = nil
	m.err = nil
	m.warning = ""
	m.table.SetRows(nil)
	m.prefs.Visit(makeModel)
	m.savePrefs()
	cmd := m.load(false)
	return m, cmd
}

// nextRecent returns the remembered type after the current one.
func (m Model) nextRecent() string {
	recent := m.prefs.RecentTypes
	if len(recent) == 0 {
		return ""
	}
	for i, t := range recent {
		if t == m.makeModel {
			return recent[(i+1)%len(recent)]
		}
	}
	return recent[0]
}

// load starts a new PlanesByType call; replies to earlier calls are ignored.
func (m *Model) load(force bool) tea.Cmd {
	if m.source == nil || m.makeModel == "" {
		return nil
	}
	m.loading = true
	m.loadSeq++
	return m.fetch(force)
}

// fetch queries the source tagged with the current load sequence.
func (m Model) fetch(force bool) tea.Cmd {
	if m.source == nil || m.makeModel == "" {
		return nil
	}
	seq, ctx, source, makeModel, cons := m.loadSeq, m.ctx, m.source, m.makeModel, m.constraints()
	return func() tea.Msg {
		planes, err := source.PlanesByType(ctx, makeModel, cons, force)
		return planesMsg{seq: seq, makeModel: makeModel, planes: planes, err: err}
	}
}

// handlePlanes applies only the reply to the most recent load; earlier
// replies were run for another type or filter.
func (m *Model) handlePlanes(msg planesMsg) {
	if msg.seq != m.loadSeq || msg.makeModel != m.makeModel {
		return
	}
	m.loading = false
	m.err = nil
	m.warning = ""

	var partial *datafeed.PartialError
	switch {
	case msg.err == nil:
	case errors.As(msg.err, &partial):
		m.warning = partial.Error()
	default:
		m.err = msg.err
	}

	m.planes = msg.planes
	m.table.SetRows(planeRows(msg.planes))
	m.cache, m.hasCache = m.source.CacheState(m.makeModel)
}

func (m Model) constraints() query.AircraftConstraints {
	cons := query.AircraftConstraints{RentableOnly: m.rentableOnly}
	if m.limitHours {
		cons.MaxHoursSinceService = query.Float(m.maxHours)
	}
	return cons
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, m.prefs)
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	ts := table.DefaultStyles()
	ts.Header = styles.TableHeader.Padding(0, 1)
	ts.Cell = styles.Text.Padding(0, 1)
	ts.Selected = styles.Selected
	m.table.SetStyles(ts)
	m.input.PromptStyle = styles.AccentText
	m.input.TextStyle = styles.Text
}

func (m *Model) resizeTable() {
	m.table.SetColumns(m.columns())
	m.table.SetWidth(m.width)
	body := m.height - headerHeight - footerHeight
	if m.editing {
		body--
	}
	if body < 3 {
		body = 3
	}
	m.table.SetHeight(body)
}

var fixedColumns = []table.Column{
	{Title: "Reg", Width: 9},
	{Title: "Loc", Width: 5},
	{Title: "Home", Width: 5},
	{Title: "Hours", Width: 7},
	{Title: "Dry", Width: 7},
	{Title: "Wet", Width: 7},
	{Title: "Status", Width: 9},
}

func (m Model) columns() []table.Column {
	cols := make([]table.Column, 0, len(fixedColumns)+1)
	cols = append(cols, fixedColumns...)
	used := 0
	for _, c := range fixedColumns {
		used += c.Width + 2
	}
	owner := m.width - used - 2
	if owner < 12 {
		owner = 12
	}
	return append(cols, table.Column{Title: "Owner / Rented by", Width: owner})
}

func planeRows(planes []records.Airplane) []table.Row {
	rows := make([]table.Row, 0, len(planes))
	for _, p := range planes {
		who := p.Owner
		if p.IsRented() {
			who = p.RentedBy
		}
		rows = append(rows, table.Row{
			p.Registration,
			p.Location,
			p.Home,
			fmt.Sprintf("%.1f", p.HoursSinceService()),
			formatRate(p.RentalDry),
			formatRate(p.RentalWet),
			availability(p),
			who,
		})
	}
	return rows
}

func formatRate(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("$%.0f", v)
}

// availability labels an aircraft for the Status column.
func availability(p records.Airplane) string {
	switch {
	case p.ServiceDue():
		return availDue
	case p.Rentable:
		return availRentable
	case p.IsRented():
		return availRented
	default:
		return availPrivate
	}
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	title := styles.Title.Render("fsefeed")
	typ := styles.MutedText.Render("no type")
	if m.makeModel != "" {
		typ = styles.Text.Bold(true).Render(m.makeModel)
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", typ, "  ", styles.AccentText.Render(m.filterLabel()))

	status := styles.FaintText.Render(m.cacheLabel())
	if m.loading {
		status = styles.WarningText.Render("loading...")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Header.Width(m.width).Render(line),
		styles.Header.Width(m.width).Render(status+"  "+m.summary(styles)),
	)
}

func (m Model) filterLabel() string {
	parts := []string{"all aircraft"}
	if m.rentableOnly {
		parts[0] = "rentable only"
	}
	if m.limitHours {
		parts = append(parts, fmt.Sprintf("<= %gh since service", m.maxHours))
	}
	return strings.Join(parts, ", ")
}

func (m Model) cacheLabel() string {
	if !m.hasCache {
		return "not cached"
	}
	return fmt.Sprintf("cached %d at %s", m.cache.Size, m.cache.FetchedAt.Local().Format(time.Kitchen))
}

func (m Model) summary(styles Styles) string {
	counts := map[string]int{}
	for _, p := range m.planes {
		counts[availability(p)]++
	}
	var parts []string
	for _, label := range []string{availRentable, availRented, availPrivate, availDue} {
		if n := counts[label]; n > 0 {
			parts = append(parts, styles.AvailabilityStyle(label).Render(fmt.Sprintf("%d %s", n, label)))
		}
	}
	shown := styles.MutedText.Render(fmt.Sprintf("%d shown", len(m.planes)))
	if len(parts) == 0 {
		return shown
	}
	return shown + "  " + strings.Join(parts, " ")
}

func (m Model) renderBody() string {
	styles := m.theme.Styles()
	var b strings.Builder
	if m.editing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	switch {
	case m.err != nil:
		b.WriteString(styles.DangerText.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	case m.makeModel == "":
		b.WriteString(styles.MutedText.Render("Enter an aircraft make/model to list its fleet."))
		b.WriteString("\n")
	}
	b.WriteString(m.table.View())
	return b.String()
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	line := ""
	if m.warning != "" {
		line = styles.WarningText.Render(m.warning)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Footer.Width(m.width).Render(line),
		styles.Footer.Width(m.width).Render(m.help.View(m.keys)),
	)
}

// Run starts the browser and blocks until the user quits or ctx is done.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
