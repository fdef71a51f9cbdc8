package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Forms
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Left      key.Binding
	Right     key.Binding

	// Login
	ToggleMode key.Binding

	// Dashboard
	Logout  key.Binding
	Refresh key.Binding

	// Application
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("Shift+Tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "submit"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous option"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next option"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("Ctrl+T", "login/register"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("Ctrl+O", "sair"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "quit"),
		),
	}
}

// LoginKeys is the help view of the login screen.
type LoginKeys struct{ KeyMap }

// ShortHelp implements help.KeyMap.
func (k LoginKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.ToggleMode, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k LoginKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextField, k.PrevField, k.Submit}, {k.ToggleMode, k.Quit}}
}

// DashboardKeys is the help view of the dashboard.
type DashboardKeys struct{ KeyMap }

// ShortHelp implements help.KeyMap.
func (k DashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Left, k.Right, k.Submit, k.Refresh, k.Logout, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k DashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Submit},
		{k.Left, k.Right},
		{k.Refresh, k.Logout, k.Quit},
	}
}
