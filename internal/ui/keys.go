package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	ToggleTheme key.Binding
	Back        key.Binding
	Refresh     key.Binding

	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Open  key.Binding

	// Dashboard
	Search key.Binding

	// Episode cards
	Edit          key.Binding
	ToggleRole    key.Binding
	Submit        key.Binding
	ToggleRelease key.Binding
	Remove        key.Binding
	AddEpisode    key.Binding
	AssignStaff   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Dark/light mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "Previous role"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "Next role"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open project"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search projects"),
		),

		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit progress"),
		),
		ToggleRole: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle role"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Done editing"),
		),
		ToggleRelease: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Toggle released"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Remove episode"),
		),
		AddEpisode: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add episodes"),
		),
		AssignStaff: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Assign staff"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Open, k.Back},
		{k.Search, k.Refresh, k.ToggleTheme},
		{k.Edit, k.ToggleRole, k.Submit, k.ToggleRelease},
		{k.Remove, k.AddEpisode, k.AssignStaff, k.Help, k.Quit},
	}
}

// projectHelp lists the bindings shown under the episode cards.
func (k keyMap) projectHelp() []key.Binding {
	return []key.Binding{k.Edit, k.ToggleRole, k.Submit, k.ToggleRelease, k.Remove, k.Back}
}
