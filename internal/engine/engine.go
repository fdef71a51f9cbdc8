// Package engine implements the dashboard sync cycle: loading categorias and
// lançamentos, and creating new ones, independent of any rendering.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/foco-financeiro/internal/api"
	"github.com/Veraticus/foco-financeiro/internal/model"
	"github.com/Veraticus/foco-financeiro/internal/service"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the result of one successful sync cycle.
type Snapshot struct {
	Categorias  []model.Categoria
	Lancamentos []model.Lancamento
}

// Engine runs the fetch/mutate/refetch cycle against the backend.
type Engine struct {
	api     service.FinanceAPI
	session service.Session
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock replaces the clock used to date new lançamentos.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine. session is logged out when a request fails with an
// authentication error; it may be nil.
func New(financeAPI service.FinanceAPI, session service.Session, opts ...Option) *Engine {
	e := &Engine{
		api:     financeAPI,
		session: session,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load fetches both collections concurrently. Both must succeed. Lançamentos
// are ordered by descending date with server order kept for ties.
func (e *Engine) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categorias, err := e.api.ListCategorias(gctx)
		if err != nil {
			return err
		}
		snap.Categorias = categorias
		return nil
	})
	g.Go(func() error {
		lancamentos, err := e.api.ListLancamentos(gctx)
		if err != nil {
			return err
		}
		snap.Lancamentos = lancamentos
		return nil
	})

	if err := g.Wait(); err != nil {
		e.recover(ctx, err)
		return Snapshot{}, err
	}

	model.SortLancamentos(snap.Lancamentos)
	e.logger.Debug("dashboard loaded",
		"categorias", len(snap.Categorias),
		"lancamentos", len(snap.Lancamentos))
	return snap, nil
}

// AddCategoria validates draft and creates the categoria.
func (e *Engine) AddCategoria(ctx context.Context, draft CategoriaDraft) (*model.Categoria, error) {
	nome, err := draft.Validate()
	if err != nil {
		return nil, err
	}

	created, err := e.api.CreateCategoria(ctx, nome, "")
	if err != nil {
		e.recover(ctx, err)
		return nil, err
	}
	e.logger.Info("categoria created", "id", created.ID, "nome", created.Nome)
	return created, nil
}

// AddLancamento validates draft and records the lançamento dated today in UTC.
func (e *Engine) AddLancamento(ctx context.Context, draft LancamentoDraft) (*model.Lancamento, error) {
	novo, err := draft.Build(model.NewDate(e.now().UTC()))
	if err != nil {
		return nil, err
	}

	created, err := e.api.CreateLancamento(ctx, novo)
	if err != nil {
		e.recover(ctx, err)
		return nil, err
	}
	e.logger.Info("lancamento created", "id", created.ID, "tipo", created.Tipo, "valor", created.Valor.String())
	return created, nil
}

// recover logs the session out when err looks like a rejected token.
func (e *Engine) recover(ctx context.Context, err error) {
	if e.session == nil || !api.IsAuthFailure(err) {
		return
	}
	e.logger.Warn("request rejected, ending session", "error", err)
	if logoutErr := e.session.Logout(ctx); logoutErr != nil {
		e.logger.Error("failed to end session", "error", fmt.Errorf("failed to logout: %w", logoutErr))
	}
}
