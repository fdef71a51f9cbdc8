package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/foco-financeiro/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
// Session transitions are forwarded to the running program so the router
// re-renders whenever the store changes, including logouts triggered by the
// sync engine.
func Run(ctx context.Context, opts ...Option) error {
	m, err := New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if m.config.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, programOpts...)

	unsubscribe := m.session.Subscribe(func(status model.SessionStatus) {
		m.logger.Debug("session changed", "status", status)
		p.Send(sessionChangedMsg{})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
