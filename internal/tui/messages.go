package tui

import "github.com/Veraticus/foco-financeiro/internal/engine"

// sessionChangedMsg is sent after every session transition.
type sessionChangedMsg struct{}

// Results carry the generation of the screen that issued them. A screen
// ignores results from an earlier mount.
type loginResultMsg struct {
	err        error
	generation int
}

type registerResultMsg struct {
	err        error
	generation int
}

type dashboardLoadedMsg struct {
	err        error
	snapshot   engine.Snapshot
	generation int
}

type categoriaCreatedMsg struct {
	err        error
	generation int
}

type lancamentoCreatedMsg struct {
	err        error
	generation int
}

type logoutResultMsg struct {
	err        error
	generation int
}
