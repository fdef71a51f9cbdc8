package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Normal       lipgloss.Style
	Bold         lipgloss.Style
	Italic       lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Selected     lipgloss.Style
	Button       lipgloss.Style
	Card         lipgloss.Style
	Notification lipgloss.Style
	ListItem     lipgloss.Style
	Expense      lipgloss.Style
	Income       lipgloss.Style
	StatusInfo   lipgloss.Style
	StatusError  lipgloss.Style
	StatusOK     lipgloss.Style
	Help         lipgloss.Style
	Primary      lipgloss.Color
	Secondary    lipgloss.Color
	Muted        lipgloss.Color
	Border       lipgloss.Color
	Foreground   lipgloss.Color
	Background   lipgloss.Color
	Info         lipgloss.Color
	Error        lipgloss.Color
	Success      lipgloss.Color
}

type palette struct {
	primary, secondary, success, errorColor, info lipgloss.Color
	background, foreground, border, muted, subtle lipgloss.Color
	surface, onPrimary                            lipgloss.Color
}

func newTheme(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Secondary:  p.secondary,
		Success:    p.success,
		Error:      p.errorColor,
		Info:       p.info,
		Background: p.background,
		Foreground: p.foreground,
		Border:     p.border,
		Muted:      p.muted,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Italic: lipgloss.NewStyle().
			Italic(true).
			Foreground(p.muted),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.onPrimary).
			Bold(true),
		Button: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.onPrimary).
			Padding(0, 2),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2),
		Notification: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.errorColor).
			Padding(1, 2),
		ListItem: lipgloss.NewStyle().
			Background(p.surface).
			Foreground(p.foreground).
			Padding(0, 1),
		Expense: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),
		Income: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),
		StatusOK: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(p.muted),
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    lipgloss.Color("#7c3aed"),
	secondary:  lipgloss.Color("#a78bfa"),
	success:    lipgloss.Color("#10b981"),
	errorColor: lipgloss.Color("#ef4444"),
	info:       lipgloss.Color("#3b82f6"),
	background: lipgloss.Color("#1a1a1a"),
	foreground: lipgloss.Color("#fafafa"),
	border:     lipgloss.Color("#404040"),
	muted:      lipgloss.Color("#737373"),
	subtle:     lipgloss.Color("#a3a3a3"),
	surface:    lipgloss.Color("#262626"),
	onPrimary:  lipgloss.Color("#fafafa"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    lipgloss.Color("#cba6f7"),
	secondary:  lipgloss.Color("#f5c2e7"),
	success:    lipgloss.Color("#a6e3a1"),
	errorColor: lipgloss.Color("#f38ba8"),
	info:       lipgloss.Color("#89dceb"),
	background: lipgloss.Color("#1e1e2e"),
	foreground: lipgloss.Color("#cdd6f4"),
	border:     lipgloss.Color("#45475a"),
	muted:      lipgloss.Color("#6c7086"),
	subtle:     lipgloss.Color("#a6adc8"),
	surface:    lipgloss.Color("#313244"),
	onPrimary:  lipgloss.Color("#1e1e2e"),
})

// Names lists the selectable theme names.
var Names = []string{"default", "catppuccin-mocha"}

// GetTheme returns a theme by name, falling back to Default.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
