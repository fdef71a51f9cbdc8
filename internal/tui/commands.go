package tui

import (
	"context"

	"github.com/Veraticus/foco-financeiro/internal/engine"
	tea "github.com/charmbracelet/bubbletea"
)

// Session and engine calls run inside commands, never in Update: session
// listeners call Program.Send, which would block the update loop.

func sessionChanged() tea.Msg {
	return sessionChangedMsg{}
}

func loginCmd(ctx context.Context, s Session, generation int, username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginResultMsg{generation: generation, err: s.Login(ctx, username, password)}
	}
}

func registerCmd(ctx context.Context, s Session, generation int, username, password string) tea.Cmd {
	return func() tea.Msg {
		return registerResultMsg{generation: generation, err: s.Register(ctx, username, password)}
	}
}

func logoutCmd(ctx context.Context, s Session, generation int) tea.Cmd {
	return func() tea.Msg {
		return logoutResultMsg{generation: generation, err: s.Logout(ctx)}
	}
}

func loadCmd(ctx context.Context, s Syncer, generation int) tea.Cmd {
	return func() tea.Msg {
		snap, err := s.Load(ctx)
		return dashboardLoadedMsg{generation: generation, snapshot: snap, err: err}
	}
}

func addCategoriaCmd(ctx context.Context, s Syncer, generation int, draft engine.CategoriaDraft) tea.Cmd {
	return func() tea.Msg {
		_, err := s.AddCategoria(ctx, draft)
		return categoriaCreatedMsg{generation: generation, err: err}
	}
}

func addLancamentoCmd(ctx context.Context, s Syncer, generation int, draft engine.LancamentoDraft) tea.Cmd {
	return func() tea.Msg {
		_, err := s.AddLancamento(ctx, draft)
		return lancamentoCreatedMsg{generation: generation, err: err}
	}
}
