// Package tui is the terminal interface of Foco Financeiro. The root Model
// routes between the login screen and the dashboard from the session status
// alone.
package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Veraticus/foco-financeiro/internal/api"
	"github.com/Veraticus/foco-financeiro/internal/engine"
	"github.com/Veraticus/foco-financeiro/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen is the view mounted by the router.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
)

func (s Screen) String() string {
	if s == ScreenDashboard {
		return "dashboard"
	}
	return "login"
}

// Model is the view router.
type Model struct {
	ctx        context.Context
	session    Session
	syncer     Syncer
	logger     *slog.Logger
	theme      themes.Theme
	keymap     KeyMap
	help       help.Model
	login      loginModel
	dashboard  dashboardModel
	config     Config
	mountCmd   tea.Cmd
	expired    string
	screen     Screen
	generation int
	ended      int
	width      int
	height     int
	quitting   bool
}

// New creates the router and mounts the screen matching the session status.
func New(ctx context.Context, opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Session == nil {
		return Model{}, errors.New("tui: session is required")
	}
	if cfg.Syncer == nil {
		return Model{}, errors.New("tui: syncer is required")
	}

	m := Model{
		ctx:     ctx,
		session: cfg.Session,
		syncer:  cfg.Syncer,
		logger:  cfg.Logger,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		config:  cfg,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	m.mountCmd = m.mount(m.target())
	return m, nil
}

// Screen returns the mounted screen.
func (m Model) Screen() Screen {
	return m.screen
}

func (m Model) target() Screen {
	if m.session.IsAuthenticated() {
		return ScreenDashboard
	}
	return ScreenLogin
}

// mount replaces the active screen. Every mount starts a new generation so
// results addressed to the previous screen are ignored. ended keeps the
// generation of the last dashboard replaced by the login screen.
func (m *Model) mount(screen Screen) tea.Cmd {
	if m.screen == ScreenDashboard && screen == ScreenLogin {
		m.ended = m.generation
	}
	m.generation++
	m.screen = screen
	m.logger.Debug("mounting screen", "screen", screen, "generation", m.generation)

	if screen == ScreenDashboard {
		m.dashboard = newDashboardModel(m.ctx, m.session, m.syncer, m.theme, m.keymap, m.generation)
		return m.dashboard.start()
	}
	m.login = newLoginModel(m.ctx, m.session, m.theme, m.keymap, m.generation)
	m.login.err = m.expired
	m.expired = ""
	return nil
}

// sessionExpired reports the message of a dashboard result that failed with
// a rejected token after which the session ended.
func (m Model) sessionExpired(msg tea.Msg) (string, int, bool) {
	var err error
	var generation int
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		err, generation = msg.err, msg.generation
	case categoriaCreatedMsg:
		err, generation = msg.err, msg.generation
	case lancamentoCreatedMsg:
		err, generation = msg.err, msg.generation
	default:
		return "", 0, false
	}
	if err == nil || !api.IsAuthFailure(err) || m.session.IsAuthenticated() {
		return "", 0, false
	}
	return engine.Message(err), generation, true
}

// Init starts the sync cycle when the dashboard is mounted first.
func (m Model) Init() tea.Cmd {
	return m.mountCmd
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

	case sessionChangedMsg:
		if target := m.target(); target != m.screen {
			return m, m.mount(target)
		}
		return m, nil
	}

	// The reason for an expired session survives the switch to login, in
	// whichever order the session change and the failed result arrive.
	if reason, generation, ok := m.sessionExpired(msg); ok {
		switch {
		case m.screen == ScreenDashboard && generation == m.generation:
			m.expired = reason
		case m.screen == ScreenLogin && generation == m.ended:
			m.login.err = reason
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case ScreenDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	default:
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	var keys help.KeyMap
	switch m.screen {
	case ScreenDashboard:
		content = m.dashboard.View(m.width)
		keys = DashboardKeys{m.keymap}
	default:
		content = m.login.View()
		keys = LoginKeys{m.keymap}
	}

	if m.config.ShowHelp {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.help.View(keys))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}
