package tui

import (
	"context"
	"log/slog"

	"github.com/Veraticus/foco-financeiro/internal/engine"
	"github.com/Veraticus/foco-financeiro/internal/model"
	"github.com/Veraticus/foco-financeiro/internal/session"
	"github.com/Veraticus/foco-financeiro/internal/tui/themes"
)

// Session is the session store surface the TUI drives.
type Session interface {
	IsAuthenticated() bool
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Subscribe(fn session.Listener) (unsubscribe func())
}

// Syncer runs the dashboard sync cycle.
type Syncer interface {
	Load(ctx context.Context) (engine.Snapshot, error)
	AddCategoria(ctx context.Context, draft engine.CategoriaDraft) (*model.Categoria, error)
	AddLancamento(ctx context.Context, draft engine.LancamentoDraft) (*model.Lancamento, error)
}

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Session   Session
	Syncer    Syncer
	Logger    *slog.Logger
	Width     int
	Height    int
	AltScreen bool
	ShowHelp  bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Logger:    slog.Default(),
		Width:     100,
		Height:    30,
		AltScreen: true,
		ShowHelp:  true,
	}
}

// WithSession sets the session store.
func WithSession(s Session) Option {
	return func(c *Config) {
		c.Session = s
	}
}

// WithSyncer sets the dashboard sync engine.
func WithSyncer(s Syncer) Option {
	return func(c *Config) {
		c.Syncer = s
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithLogger sets the logger. The terminal is owned by the TUI, so it
// should write to a file.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen controls whether the program takes over the full terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}

// WithHelp toggles the key help footer.
func WithHelp(enabled bool) Option {
	return func(c *Config) {
		c.ShowHelp = enabled
	}
}
