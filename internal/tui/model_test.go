package tui

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/Veraticus/foco-financeiro/internal/api"
	"github.com/Veraticus/foco-financeiro/internal/engine"
	"github.com/Veraticus/foco-financeiro/internal/session"
	"github.com/Veraticus/foco-financeiro/internal/storage"
	"github.com/Veraticus/foco-financeiro/internal/testutil"
	tuitest "github.com/Veraticus/foco-financeiro/internal/tui/testing"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tuiPkg = reflect.TypeOf(sessionChangedMsg{}).PkgPath()

// ownMessages feeds back only the messages this package defines, so
// spinner ticks and cursor blinks do not loop forever.
func ownMessages(msg tea.Msg) bool {
	return reflect.TypeOf(msg).PkgPath() == tuiPkg
}

type testApp struct {
	fake     *testutil.FakeAPI
	slot     *storage.TokenSlot
	session  *session.Store
	renderer *tuitest.TestRenderer
	model    tea.Model
}

func newTestApp(t *testing.T, token string) *testApp {
	t.Helper()
	ctx := context.Background()

	fake := testutil.NewFakeAPI(t)
	slot := storage.NewTokenSlot(storage.NewMemoryStorage())
	if token != "" {
		fake.IssueToken(token, "alice")
		require.NoError(t, slot.SetToken(ctx, token))
	}

	client := api.NewClient(fake.URL(), slot)
	store, err := session.NewStore(ctx, slot, client)
	require.NoError(t, err)

	m, err := New(ctx,
		WithSession(store),
		WithSyncer(engine.New(client, store)),
		WithSize(120, 40),
		WithHelp(false),
	)
	require.NoError(t, err)

	return &testApp{
		fake:     fake,
		slot:     slot,
		session:  store,
		renderer: tuitest.NewTestRenderer(ownMessages),
		model:    m,
	}
}

func (a *testApp) start() {
	a.model = a.renderer.Settle(a.model, a.model.Init())
}

func (a *testApp) send(msgs ...tea.Msg) {
	a.model = a.renderer.Send(a.model, msgs...)
}

func (a *testApp) typeText(text string) {
	a.send(tuitest.Type(text)...)
}

func (a *testApp) view() string {
	return tuitest.StripANSI(a.model.View())
}

func (a *testApp) root() Model {
	return a.model.(Model)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(context.Background())
	require.Error(t, err)
}

func TestRouter_StartsOnLoginWhenAnonymous(t *testing.T) {
	app := newTestApp(t, "")
	app.start()

	assert.Equal(t, ScreenLogin, app.root().Screen())
	assert.Contains(t, app.view(), "Login no Foco Financeiro")
	assert.Contains(t, app.view(), "Entrar")
}

func TestRouter_RestoredSessionShowsLoadingThenDashboard(t *testing.T) {
	app := newTestApp(t, "T7")

	assert.Equal(t, ScreenDashboard, app.root().Screen())
	assert.Contains(t, app.view(), MsgLoading)

	app.start()
	view := app.view()
	assert.NotContains(t, view, MsgLoading)
	assert.Contains(t, view, "Painel Foco Financeiro")
	assert.Contains(t, view, MsgNoCategorias)
	assert.Contains(t, view, MsgNoLancamentos)
}

func TestLogin_ToggleAndEmptyFields(t *testing.T) {
	app := newTestApp(t, "")
	app.start()

	app.send(tuitest.Key(tea.KeyCtrlT))
	assert.Contains(t, app.view(), "Crie sua Conta")
	assert.Contains(t, app.view(), "Registrar")

	app.send(tuitest.KeyEnter())
	assert.Contains(t, app.view(), MsgCredentialsEmpty)
	assert.Empty(t, app.fake.Requests())

	app.send(tuitest.Key(tea.KeyCtrlT))
	assert.Contains(t, app.view(), "Login no Foco Financeiro")
	assert.NotContains(t, app.view(), MsgCredentialsEmpty)
}

func TestLogin_ShowsServerError(t *testing.T) {
	app := newTestApp(t, "")
	app.fake.AddUser("alice", "pw")
	app.start()

	app.typeText("alice")
	app.send(tuitest.KeyTab())
	app.typeText("nope")
	app.send(tuitest.KeyEnter())

	assert.Equal(t, ScreenLogin, app.root().Screen())
	assert.Contains(t, app.view(), testutil.MsgInvalidCredentials)
	assert.NotContains(t, app.view(), "nope", "password must be masked")
}

func TestLogin_BusyShowsProcessing(t *testing.T) {
	app := newTestApp(t, "")
	app.start()

	app.typeText("alice")
	app.send(tuitest.KeyTab())
	app.typeText("pw")

	next, cmd := app.renderer.Update(app.model, tuitest.KeyEnter())
	require.NotNil(t, cmd)
	app.model = next
	assert.Contains(t, app.view(), MsgProcessing)
}

// Register, log in, land on an empty dashboard, add a categoria and see it
// auto-selected in the lançamento form.
func TestRouter_EndToEnd(t *testing.T) {
	app := newTestApp(t, "")
	app.start()

	app.send(tuitest.Key(tea.KeyCtrlT))
	app.typeText("alice")
	app.send(tuitest.KeyTab())
	app.typeText("pw")
	app.send(tuitest.KeyEnter())

	assert.Equal(t, ScreenLogin, app.root().Screen())
	assert.Contains(t, app.view(), MsgRegistered)
	assert.Contains(t, app.view(), "Login no Foco Financeiro")

	app.typeText("pw")
	app.send(tuitest.KeyEnter())

	require.Equal(t, ScreenDashboard, app.root().Screen())
	token, err := app.slot.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "T1", token)
	assert.Contains(t, app.view(), MsgNoCategorias)
	assert.Contains(t, app.view(), MsgNoLancamentos)
	assert.Contains(t, app.view(), MsgSelectPlaceholder)

	app.typeText("Comida")
	app.send(tuitest.KeyEnter())

	require.Len(t, app.fake.RequestsTo(http.MethodPost, api.EndpointCategorias), 1)
	assert.JSONEq(t, `{"nome":"Comida","descricao":""}`, string(app.fake.RequestsTo(http.MethodPost, api.EndpointCategorias)[0].Body))

	dash := app.root().dashboard.dash
	require.Len(t, dash.Categorias, 1)
	assert.Equal(t, dash.Categorias[0].ID, dash.Lancamento.CategoriaID)
	assert.Empty(t, app.root().dashboard.nome.Value())

	view := app.view()
	assert.NotContains(t, view, MsgNoCategorias)
	assert.NotContains(t, view, MsgSelectPlaceholder)
	assert.Contains(t, view, "Categoria: ‹ Comida ›")

	// descricao, valor, tipo
	app.send(tuitest.KeyTab())
	app.typeText("Salário")
	app.send(tuitest.KeyTab())
	app.typeText("1500")
	app.send(tuitest.KeyTab(), tuitest.KeyRight())
	app.send(tuitest.KeyEnter())

	require.Len(t, dash.Lancamentos, 1)
	view = app.view()
	assert.Contains(t, view, "Salário")
	assert.Contains(t, view, "+ R$ 1500.00")
	assert.Contains(t, view, "Comida - ")
	assert.NotContains(t, view, MsgNoLancamentos)
	assert.Empty(t, app.root().dashboard.descricao.Value())
	assert.Empty(t, app.root().dashboard.valor.Value())
}

func TestDashboard_SelectCategoriaBeforeLancamento(t *testing.T) {
	app := newTestApp(t, "T7")
	app.start()

	app.send(tuitest.KeyTab())
	app.typeText("Feira")
	app.send(tuitest.KeyTab())
	app.typeText("10")
	app.send(tuitest.KeyEnter())

	assert.Contains(t, app.view(), engine.MsgSelectCategoria)
	assert.Empty(t, app.fake.RequestsTo(http.MethodPost, api.EndpointLancamentos))

	app.send(tuitest.KeyPress("x"))
	assert.NotContains(t, app.view(), engine.MsgSelectCategoria)
	assert.Equal(t, "Feira", app.root().dashboard.descricao.Value(), "drafts survive a failure")
}

func TestDashboard_LoadErrorNotification(t *testing.T) {
	app := newTestApp(t, "T7")
	app.fake.Fail(http.MethodGet, api.EndpointLancamentos, http.StatusInternalServerError, `{"message":"boom"}`)
	app.start()

	view := app.view()
	assert.Contains(t, view, TitleLoadFailed)
	assert.Contains(t, view, "boom")
	assert.Equal(t, ScreenDashboard, app.root().Screen())

	app.fake.ClearFailures()
	app.send(tuitest.KeyPress("q"))
	assert.NotContains(t, app.view(), "boom")

	app.send(tuitest.Key(tea.KeyCtrlR))
	assert.Contains(t, app.view(), MsgNoLancamentos)
}

func TestDashboard_AuthFailureReturnsToLogin(t *testing.T) {
	app := newTestApp(t, "T7")
	app.start()
	require.Equal(t, ScreenDashboard, app.root().Screen())

	app.fake.RevokeTokens()
	app.send(tuitest.Key(tea.KeyCtrlR))

	assert.Equal(t, ScreenLogin, app.root().Screen())
	assert.False(t, app.session.IsAuthenticated())
	assert.Contains(t, app.view(), testutil.MsgInvalidToken)
	token, err := app.slot.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)

	app.send(tuitest.Key(tea.KeyCtrlT))
	assert.NotContains(t, app.view(), testutil.MsgInvalidToken)
}

// The session listener may remount login before the failed result arrives.
func TestDashboard_AuthFailureAfterSessionChange(t *testing.T) {
	app := newTestApp(t, "T7")
	app.start()
	generation := app.root().generation

	require.NoError(t, app.session.Logout(context.Background()))
	app.send(sessionChangedMsg{})
	require.Equal(t, ScreenLogin, app.root().Screen())
	assert.NotContains(t, app.view(), testutil.MsgInvalidToken)

	rejected := &api.RequestError{Status: http.StatusUnauthorized, Message: testutil.MsgInvalidToken}
	app.send(dashboardLoadedMsg{generation: generation, err: rejected})
	assert.Contains(t, app.view(), testutil.MsgInvalidToken)
}

func TestDashboard_UserLogoutShowsNoError(t *testing.T) {
	app := newTestApp(t, "T7")
	app.start()

	app.send(tuitest.Key(tea.KeyCtrlO))
	require.Equal(t, ScreenLogin, app.root().Screen())
	assert.NotContains(t, app.view(), testutil.MsgInvalidToken)
	assert.Empty(t, app.root().login.err)
}

func TestDashboard_Logout(t *testing.T) {
	app := newTestApp(t, "T7")
	app.start()

	app.send(tuitest.Key(tea.KeyCtrlO))

	assert.Equal(t, ScreenLogin, app.root().Screen())
	assert.False(t, app.session.IsAuthenticated())
	assert.Contains(t, app.view(), "Login no Foco Financeiro")
}

func TestRouter_IgnoresStaleDashboardResult(t *testing.T) {
	app := newTestApp(t, "T7")
	app.start()
	stale := app.root().generation

	// Remount the dashboard: log out, then back in through the store.
	app.send(tuitest.Key(tea.KeyCtrlO))
	app.fake.AddUser("alice", "pw")
	require.NoError(t, app.session.Login(context.Background(), "alice", "pw"))
	app.send(sessionChangedMsg{})
	require.Equal(t, ScreenDashboard, app.root().Screen())
	require.Greater(t, app.root().generation, stale)

	app.send(dashboardLoadedMsg{generation: stale, err: errors.New("late failure")})
	assert.NotContains(t, app.view(), "late failure")
	assert.Nil(t, app.root().dashboard.notice)
}

func TestRouter_SessionChangeWithoutTransitionKeepsScreen(t *testing.T) {
	app := newTestApp(t, "")
	app.start()
	generation := app.root().generation

	app.send(sessionChangedMsg{})
	assert.Equal(t, generation, app.root().generation)
}

func TestRouter_QuitKey(t *testing.T) {
	app := newTestApp(t, "")
	app.start()

	app.send(tuitest.Key(tea.KeyCtrlC))
	assert.True(t, app.renderer.Quit)
	assert.Empty(t, app.model.View())
}
