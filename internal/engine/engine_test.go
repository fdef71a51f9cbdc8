package engine

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/Veraticus/foco-financeiro/internal/api"
	"github.com/Veraticus/foco-financeiro/internal/model"
	"github.com/Veraticus/foco-financeiro/internal/session"
	"github.com/Veraticus/foco-financeiro/internal/storage"
	"github.com/Veraticus/foco-financeiro/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 22, 30, 0, 0, time.UTC)

type harness struct {
	fake    *testutil.FakeAPI
	session *session.Store
	engine  *Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	fake := testutil.NewFakeAPI(t)
	fake.AddUser("alice", "pw")

	slot := storage.NewTokenSlot(storage.NewMemoryStorage())
	client := api.NewClient(fake.URL(), slot)
	store, err := session.NewStore(ctx, slot, client)
	require.NoError(t, err)

	return &harness{
		fake:    fake,
		session: store,
		engine:  New(client, store, WithClock(func() time.Time { return fixedNow })),
	}
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	require.NoError(t, h.session.Login(context.Background(), "alice", "pw"))
}

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestEngine_LoadIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	c := h.fake.SeedCategoria("Comida")
	h.fake.SeedLancamento(model.Lancamento{Descricao: "Feira", Valor: decimal.NewFromInt(10), Tipo: model.TipoCusto, Data: date(t, "2024-01-01"), Categoria: c})

	first, err := h.engine.Load(context.Background())
	require.NoError(t, err)
	second, err := h.engine.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, h.fake.RequestsTo(http.MethodGet, api.EndpointCategorias), 2)
	assert.Len(t, h.fake.RequestsTo(http.MethodGet, api.EndpointLancamentos), 2)
}

func TestEngine_LoadSortsByDateDescending(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	c := h.fake.SeedCategoria("Comida")
	for _, seed := range []struct {
		data string
		id   int
	}{
		{id: 101, data: "2024-01-01"},
		{id: 102, data: "2024-03-01"},
		{id: 103, data: "2024-02-01"},
		{id: 104, data: "2024-03-01"},
	} {
		h.fake.SeedLancamento(model.Lancamento{ID: seed.id, Descricao: "x", Valor: decimal.NewFromInt(1), Tipo: model.TipoGanho, Data: date(t, seed.data), Categoria: c})
	}

	snap, err := h.engine.Load(context.Background())
	require.NoError(t, err)

	ids := make([]int, 0, len(snap.Lancamentos))
	for _, l := range snap.Lancamentos {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []int{102, 104, 103, 101}, ids)
}

func TestEngine_LoadErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "server message", body: `{"message":"boom"}`, want: "boom"},
		{name: "unparseable", body: `not json`, want: api.GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.login(t)
			h.fake.Fail(http.MethodGet, api.EndpointLancamentos, http.StatusInternalServerError, tt.body)

			dash := NewDashboard()
			dash.Begin()
			snap, err := h.engine.Load(context.Background())
			dash.Resolve(snap, err)

			require.Error(t, err)
			assert.Equal(t, PhaseFailed, dash.Phase)
			assert.Equal(t, tt.want, dash.ErrorMessage())
			assert.True(t, h.session.IsAuthenticated(), "non-auth errors keep the session")
		})
	}
}

func TestEngine_AuthFailureLogsOut(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.fake.RevokeTokens()

	var seen []model.SessionStatus
	h.session.Subscribe(func(s model.SessionStatus) { seen = append(seen, s) })

	_, err := h.engine.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, testutil.MsgInvalidToken, Message(err))
	assert.False(t, h.session.IsAuthenticated())
	assert.Equal(t, []model.SessionStatus{model.StatusAnonymous}, seen)
}

func TestEngine_AuthFailureOnCreateLogsOut(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.fake.Fail(http.MethodPost, api.EndpointCategorias, http.StatusForbidden, `{"message":"Token expirado"}`)

	_, err := h.engine.AddCategoria(context.Background(), CategoriaDraft{Nome: "Lazer"})
	require.Error(t, err)
	assert.False(t, h.session.IsAuthenticated())
}

func TestEngine_ValidationNeverReachesNetwork(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()
	before := len(h.fake.Requests())

	tests := []struct {
		run  func() error
		name string
		want string
	}{
		{
			name: "empty nome",
			run: func() error {
				_, err := h.engine.AddCategoria(ctx, CategoriaDraft{Nome: "   "})
				return err
			},
			want: MsgNomeRequired,
		},
		{
			name: "no categoria selected",
			run: func() error {
				_, err := h.engine.AddLancamento(ctx, LancamentoDraft{Descricao: "Feira", Valor: "10", Tipo: model.TipoCusto})
				return err
			},
			want: MsgSelectCategoria,
		},
		{
			name: "missing descricao",
			run: func() error {
				_, err := h.engine.AddLancamento(ctx, LancamentoDraft{Valor: "10", CategoriaID: 1})
				return err
			},
			want: MsgDescricaoMissing,
		},
		{
			name: "invalid valor",
			run: func() error {
				_, err := h.engine.AddLancamento(ctx, LancamentoDraft{Descricao: "Feira", Valor: "dez", CategoriaID: 1})
				return err
			},
			want: MsgValorInvalid,
		},
		{
			name: "missing valor",
			run: func() error {
				_, err := h.engine.AddLancamento(ctx, LancamentoDraft{Descricao: "Feira", CategoriaID: 1})
				return err
			},
			want: MsgValorInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, Message(err))
		})
	}

	assert.Len(t, h.fake.Requests(), before)
}

func TestEngine_AddLancamentoPayload(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	c := h.fake.SeedCategoria("Salário")

	created, err := h.engine.AddLancamento(context.Background(), LancamentoDraft{
		Descricao:   " Pagamento ",
		Valor:       "2500,50",
		Tipo:        model.TipoGanho,
		CategoriaID: c.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "Pagamento", created.Descricao)
	assert.Equal(t, "2024-03-15", created.Data.String())
	assert.Equal(t, "+ R$ 2500.50", created.FormatValor())

	posted := h.fake.RequestsTo(http.MethodPost, api.EndpointLancamentos)
	require.Len(t, posted, 1)
	assert.JSONEq(t,
		`{"descricao":"Pagamento","valor":2500.5,"tipo":"GANHO","data":"2024-03-15","categoria":{"id":`+strconv.Itoa(c.ID)+`}}`,
		string(posted[0].Body))
}

func TestEngine_AddLancamentoUsesUTCDate(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	c := h.fake.SeedCategoria("Comida")

	// 22:30 in São Paulo on the 15th is already the 16th in UTC.
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	h.engine = New(h.engine.api, h.session, WithClock(func() time.Time {
		return time.Date(2024, 3, 15, 22, 30, 0, 0, saoPaulo)
	}))

	created, err := h.engine.AddLancamento(context.Background(), LancamentoDraft{
		Descricao:   "Jantar",
		Valor:       "80",
		Tipo:        model.TipoCusto,
		CategoriaID: c.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16", created.Data.String())

	posted := h.fake.RequestsTo(http.MethodPost, api.EndpointLancamentos)
	require.Len(t, posted, 1)
	assert.Contains(t, string(posted[0].Body), `"data":"2024-03-16"`)
}

// Register, login, load an empty dashboard, create a categoria and a
// lançamento, and see both after the refetch.
func TestEngine_EndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.session.Register(ctx, "u", "p"))
	assert.False(t, h.session.IsAuthenticated())
	require.NoError(t, h.session.Login(ctx, "u", "p"))
	require.True(t, h.session.IsAuthenticated())

	dash := NewDashboard()
	dash.Begin()
	assert.True(t, dash.Loading())
	snap, err := h.engine.Load(ctx)
	dash.Resolve(snap, err)
	require.NoError(t, err)
	assert.Empty(t, dash.Categorias)
	assert.Empty(t, dash.Lancamentos)
	assert.Zero(t, dash.Lancamento.CategoriaID)

	dash.Categoria.Nome = "Comida"
	_, err = h.engine.AddCategoria(ctx, dash.Categoria)
	require.NoError(t, err)
	dash.CategoriaCreated()
	assert.Empty(t, dash.Categoria.Nome)

	dash.Begin()
	snap, err = h.engine.Load(ctx)
	dash.Resolve(snap, err)
	require.NoError(t, err)
	require.Len(t, dash.Categorias, 1)
	assert.Equal(t, dash.Categorias[0].ID, dash.Lancamento.CategoriaID)

	dash.Lancamento.Descricao = "Feira"
	dash.Lancamento.Valor = "42.10"
	_, err = h.engine.AddLancamento(ctx, dash.Lancamento)
	require.NoError(t, err)
	dash.LancamentoCreated()
	assert.Empty(t, dash.Lancamento.Descricao)
	assert.Empty(t, dash.Lancamento.Valor)
	assert.Equal(t, model.TipoCusto, dash.Lancamento.Tipo)

	dash.Begin()
	snap, err = h.engine.Load(ctx)
	dash.Resolve(snap, err)
	require.NoError(t, err)
	require.Len(t, dash.Lancamentos, 1)

	l := dash.Lancamentos[0]
	assert.Equal(t, "Feira", l.Descricao)
	assert.Equal(t, "Comida", l.Categoria.Nome)
	assert.Equal(t, "- R$ 42.10", l.FormatValor())
	assert.Equal(t, "15/03/2024", l.Data.Display())
}

func TestNew_NilSessionSkipsRecovery(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	e := New(api.NewClient(fake.URL(), nil), nil)

	_, err := e.Load(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsAuthFailure(err))
}
