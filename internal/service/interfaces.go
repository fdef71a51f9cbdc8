// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/foco-financeiro/internal/model"
)

// KeyValueStore is a durable string slot store.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TokenSlot holds the persisted bearer token. Token returns "" when absent.
type TokenSlot interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// AuthAPI is the authentication surface of the backend.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (model.AuthToken, error)
	Register(ctx context.Context, creds model.Credentials) error
}

// FinanceAPI is the categoria and lançamento surface of the backend.
type FinanceAPI interface {
	ListCategorias(ctx context.Context) ([]model.Categoria, error)
	CreateCategoria(ctx context.Context, nome, descricao string) (*model.Categoria, error)
	ListLancamentos(ctx context.Context) ([]model.Lancamento, error)
	CreateLancamento(ctx context.Context, l model.NovoLancamento) (*model.Lancamento, error)
}

// Session is the part of the session store the dashboard depends on.
type Session interface {
	IsAuthenticated() bool
	Logout(ctx context.Context) error
}
