package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/foco-financeiro/internal/common"
	"github.com/Veraticus/foco-financeiro/internal/service"
)

// TokenKey is the fixed slot name of the bearer token.
const TokenKey = "jwt_token"

// TokenSlot persists the bearer token in a KeyValueStore.
type TokenSlot struct {
	store service.KeyValueStore
	key   string
}

var _ service.TokenSlot = (*TokenSlot)(nil)

// NewTokenSlot returns the token slot of store.
func NewTokenSlot(store service.KeyValueStore) *TokenSlot {
	return &TokenSlot{store: store, key: TokenKey}
}

// Token returns the persisted token, or "" when none is stored.
func (t *TokenSlot) Token(ctx context.Context) (string, error) {
	token, err := t.store.Get(ctx, t.key)
	if errors.Is(err, common.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// SetToken persists token.
func (t *TokenSlot) SetToken(ctx context.Context, token string) error {
	if err := t.store.Put(ctx, t.key, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// ClearToken removes the persisted token.
func (t *TokenSlot) ClearToken(ctx context.Context) error {
	if err := t.store.Delete(ctx, t.key); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
