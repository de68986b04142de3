package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors of the browser.
type Theme struct {
	Name string

	Background string // Outermost background
	Surface    string // Header and footer bars

	SelectionBg   string // Selected row background
	SelectionText string // Selected row text
	Border        string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string

	// AvailabilityColors colors the badge for each availability label.
	AvailabilityColors map[string]string
}

// Availability labels shown in the aircraft table.
const (
	availRentable = "rentable"
	availRented   = "rented"
	availPrivate  = "private"
	availDue      = "due"
)

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		TableHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			BorderBottom(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		availability: t.AvailabilityColors,
		muted:        t.Muted,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header      lipgloss.Style
	Footer      lipgloss.Style
	Title       lipgloss.Style
	TableHeader lipgloss.Style
	Selected    lipgloss.Style

	availability map[string]string
	muted        string
}

// AvailabilityStyle returns the foreground style for an availability label.
func (s Styles) AvailabilityStyle(label string) lipgloss.Style {
	color := s.availability[label]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24", // bg0
		Surface:       "#192330", // bg1
		SelectionBg:   "#2b3b51", // sel0
		SelectionText: "#cdcecf", // fg1
		Border:        "#39506d", // bg4
		Text:          "#cdcecf", // fg1
		Muted:         "#738091", // comment
		Faint:         "#71839b", // fg3
		Accent:        "#719cd6", // blue
		Success:       "#81b29a", // green
		Warning:       "#dbc074", // yellow
		Danger:        "#c94f6d", // red
		AvailabilityColors: map[string]string{
			availRentable: "#81b29a", // green
			availRented:   "#719cd6", // blue
			availPrivate:  "#738091", // comment
			availDue:      "#c94f6d", // red
		},
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name:          "Kanagawa",
		Background:    "#16161D", // sumiInk0
		Surface:       "#1F1F28", // sumiInk3
		SelectionBg:   "#2D4F67", // waveBlue1
		SelectionText: "#DCD7BA", // fujiWhite
		Border:        "#54546D", // sumiInk6
		Text:          "#DCD7BA", // fujiWhite
		Muted:         "#C8C093", // oldWhite
		Faint:         "#727169", // fujiGray
		Accent:        "#7E9CD8", // crystalBlue
		Success:       "#98BB6C", // springGreen
		Warning:       "#E6C384", // carpYellow
		Danger:        "#E46876", // waveRed
		AvailabilityColors: map[string]string{
			availRentable: "#98BB6C", // springGreen
			availRented:   "#7E9CD8", // crystalBlue
			availPrivate:  "#727169", // fujiGray
			availDue:      "#E46876", // waveRed
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name:          "Slate",
		Background:    "#020617", // slate-950
		Surface:       "#0f172a", // slate-900
		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50
		Border:        "#334155", // slate-700
		Text:          "#f1f5f9", // slate-100
		Muted:         "#94a3b8", // slate-400
		Faint:         "#64748b", // slate-500
		Accent:        "#38bdf8", // sky-400
		Success:       "#22c55e", // green-500
		Warning:       "#f59e0b", // amber-500
		Danger:        "#ef4444", // red-500
		AvailabilityColors: map[string]string{
			availRentable: "#22c55e", // green-500
			availRented:   "#0ea5e9", // sky-500
			availPrivate:  "#64748b", // slate-500
			availDue:      "#dc2626", // red-600
		},
	}
}
