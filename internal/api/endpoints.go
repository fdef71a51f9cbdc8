package api

import (
	"context"
	"net/http"

	"github.com/Veraticus/foco-financeiro/internal/model"
	"github.com/Veraticus/foco-financeiro/internal/service"
)

// API paths relative to the base URL.
const (
	EndpointLogin       = "/auth/login"
	EndpointRegister    = "/auth/registrar"
	EndpointCategorias  = "/categoria"
	EndpointLancamentos = "/lancamento"
)

var (
	_ service.AuthAPI    = (*Client)(nil)
	_ service.FinanceAPI = (*Client)(nil)
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.AuthToken, error) {
	var token model.AuthToken
	if err := c.do(ctx, http.MethodPost, EndpointLogin, creds, &token); err != nil {
		return model.AuthToken{}, err
	}
	return token, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, creds model.Credentials) error {
	return c.do(ctx, http.MethodPost, EndpointRegister, creds, nil)
}

// ListCategorias returns the categorias of the authenticated user.
func (c *Client) ListCategorias(ctx context.Context) ([]model.Categoria, error) {
	var categorias []model.Categoria
	if err := c.do(ctx, http.MethodGet, EndpointCategorias, nil, &categorias); err != nil {
		return nil, err
	}
	return categorias, nil
}

type novaCategoria struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
}

// CreateCategoria creates a categoria.
func (c *Client) CreateCategoria(ctx context.Context, nome, descricao string) (*model.Categoria, error) {
	var created model.Categoria
	if err := c.do(ctx, http.MethodPost, EndpointCategorias, novaCategoria{Nome: nome, Descricao: descricao}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListLancamentos returns the lançamentos of the authenticated user in server order.
func (c *Client) ListLancamentos(ctx context.Context) ([]model.Lancamento, error) {
	var lancamentos []model.Lancamento
	if err := c.do(ctx, http.MethodGet, EndpointLancamentos, nil, &lancamentos); err != nil {
		return nil, err
	}
	return lancamentos, nil
}

// CreateLancamento records a lançamento.
func (c *Client) CreateLancamento(ctx context.Context, l model.NovoLancamento) (*model.Lancamento, error) {
	var created model.Lancamento
	if err := c.do(ctx, http.MethodPost, EndpointLancamentos, l, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
