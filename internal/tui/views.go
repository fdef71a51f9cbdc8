package tui

import (
	"github.com/Veraticus/foco-financeiro/internal/tui/themes"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// newInput creates a single line input with a static cursor.
func newInput(placeholder string, theme themes.Theme) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 120
	in.Width = 30
	in.PromptStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func newSpinner(theme themes.Theme) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Primary)
	return s
}

func renderInput(theme themes.Theme, in textinput.Model, focused bool) string {
	style := theme.Input
	if focused {
		style = theme.InputFocused
	}
	return style.Render(in.View())
}

// renderSelector renders a ←/→ option picker.
func renderSelector(theme themes.Theme, label, value string, focused bool) string {
	style := theme.Input
	option := theme.Normal.Render(value)
	if focused {
		style = theme.InputFocused
		option = theme.Selected.Render(value)
	}
	return style.Render(theme.Help.Render(label+": ") + "‹ " + option + " ›")
}

func renderNotification(theme themes.Theme, title, message string) string {
	return theme.Notification.Render(lipgloss.JoinVertical(lipgloss.Left,
		theme.StatusError.Render(title),
		"",
		theme.Normal.Render(message),
		"",
		theme.Help.Render(MsgDismiss),
	))
}
