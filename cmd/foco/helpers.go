package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/foco-financeiro/internal/api"
	"github.com/Veraticus/foco-financeiro/internal/cli"
	"github.com/Veraticus/foco-financeiro/internal/common"
	"github.com/Veraticus/foco-financeiro/internal/engine"
	"github.com/Veraticus/foco-financeiro/internal/service"
	"github.com/Veraticus/foco-financeiro/internal/session"
	"github.com/Veraticus/foco-financeiro/internal/storage"
)

// MsgNotAuthenticated is shown when a command needs a session.
const MsgNotAuthenticated = "Você não está autenticado. Use 'foco login'."

// deps is the wired client stack of one command.
type deps struct {
	store   service.KeyValueStore
	client  *api.Client
	session *session.Store
	engine  *engine.Engine
}

// openDeps opens the token store and wires client, session and engine.
func (a *app) openDeps(ctx context.Context) (*deps, error) {
	store, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	slot := storage.NewTokenSlot(store)
	client := api.NewClient(a.settings.APIURL, slot, api.WithLogger(logger))

	sess, err := session.NewStore(ctx, slot, client, session.WithLogger(logger))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &deps{
		store:   store,
		client:  client,
		session: sess,
		engine:  engine.New(client, sess, engine.WithLogger(logger)),
	}, nil
}

// openStorage initializes the session store at the configured path.
func (a *app) openStorage(ctx context.Context) (service.KeyValueStore, error) {
	if a.ephemeral {
		return storage.NewMemoryStorage(), nil
	}

	store, err := storage.Open(ctx, a.settings.SessionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	return store, nil
}

// Close releases the token store.
func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		slog.Warn("failed to close session database", "error", err)
	}
}

// requireSession fails unless a user is logged in.
func (d *deps) requireSession() error {
	if !d.session.IsAuthenticated() {
		return common.NewUserError(MsgNotAuthenticated, common.ErrNotAuthenticated)
	}
	return nil
}

// load fetches the dashboard, animating a spinner on stderr.
func (a *app) load(ctx context.Context, d *deps, description string) (engine.Snapshot, error) {
	var snap engine.Snapshot
	err := cli.WithSpinner(ctx, a.errOut, description, func(ctx context.Context) error {
		var err error
		snap, err = d.engine.Load(ctx)
		return err
	})
	if err != nil {
		return engine.Snapshot{}, a.sessionError(d, fmt.Errorf("failed to load data: %w", err))
	}
	return snap, nil
}

// sessionError points the user to login when err ended the session.
func (a *app) sessionError(d *deps, err error) error {
	if d.session.IsAuthenticated() {
		return err
	}
	return common.NewUserError(engine.Message(err)+" "+MsgNotAuthenticated, err)
}
