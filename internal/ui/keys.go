package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the browser's keyboard bindings.
type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	Refresh        key.Binding
	ToggleRentable key.Binding
	ToggleMaxHours key.Binding
	EditType       key.Binding
	NextRecent     key.Binding

	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refetch type"),
		),
		ToggleRentable: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Rentable only"),
		),
		ToggleMaxHours: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Service limit"),
		),
		EditType: key.NewBinding(
			key.WithKeys("t", "/"),
			key.WithHelp("t", "Change type"),
		),
		NextRecent: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next recent type"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Load type"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.EditType, k.ToggleRentable, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.EditType, k.NextRecent, k.Confirm, k.Cancel},
		{k.ToggleRentable, k.ToggleMaxHours, k.Refresh},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
