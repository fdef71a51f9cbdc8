// Package session owns the authentication state of the client.
//
// The Store keeps the current bearer token in memory and mirrors it to a
// durable TokenSlot. Every transition writes the slot first, then swaps the
// in-memory token, then notifies subscribers, so a subscriber that issues a
// request immediately already finds the new token in the slot.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Veraticus/foco-financeiro/internal/common"
	"github.com/Veraticus/foco-financeiro/internal/model"
	"github.com/Veraticus/foco-financeiro/internal/service"
)

// Listener is notified after every session transition.
type Listener func(status model.SessionStatus)

// Store is the session state machine: Anonymous and Authenticated.
type Store struct {
	slot      service.TokenSlot
	auth      service.AuthAPI
	logger    *slog.Logger
	listeners map[int]Listener
	token     string
	nextID    int
	mu        sync.RWMutex
}

var _ service.Session = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for session transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a store whose initial state is read from slot.
func NewStore(ctx context.Context, slot service.TokenSlot, auth service.AuthAPI, opts ...Option) (*Store, error) {
	s := &Store{
		slot:      slot,
		auth:      auth,
		logger:    slog.Default(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	token, err := slot.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	s.token = token

	s.logger.Debug("session restored", "status", s.Status())
	return s, nil
}

// Status returns the derived authentication state.
func (s *Store) Status() model.SessionStatus {
	if s.IsAuthenticated() {
		return model.StatusAuthenticated
	}
	return model.StatusAnonymous
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Token returns the in-memory token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Login authenticates against the backend and stores the returned token.
// The store is unchanged when the server rejects the credentials.
func (s *Store) Login(ctx context.Context, username, password string) error {
	resp, err := s.auth.Login(ctx, model.Credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return common.ErrMissingToken
	}

	if err := s.slot.SetToken(ctx, resp.Token); err != nil {
		return err
	}
	s.setToken(resp.Token)

	s.logger.Info("logged in", "username", username)
	s.notify(model.StatusAuthenticated)
	return nil
}

// Register creates an account. It never changes the session state.
func (s *Store) Register(ctx context.Context, username, password string) error {
	if err := s.auth.Register(ctx, model.Credentials{Username: username, Password: password}); err != nil {
		return err
	}
	s.logger.Info("registered account", "username", username)
	return nil
}

// Logout forgets the token. Logging out while anonymous is a no-op that
// notifies nobody.
func (s *Store) Logout(ctx context.Context) error {
	wasAuthenticated := s.IsAuthenticated()

	if err := s.slot.ClearToken(ctx); err != nil {
		return err
	}
	s.setToken("")

	if !wasAuthenticated {
		return nil
	}
	s.logger.Info("logged out")
	s.notify(model.StatusAnonymous)
	return nil
}

// Subscribe registers fn for every later transition and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// notify calls listeners in subscription order, outside the lock.
func (s *Store) notify(status model.SessionStatus) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(status)
	}
}
