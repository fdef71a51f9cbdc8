package session

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/foco-financeiro/internal/api"
	"github.com/Veraticus/foco-financeiro/internal/common"
	"github.com/Veraticus/foco-financeiro/internal/model"
	"github.com/Veraticus/foco-financeiro/internal/storage"
	"github.com/Veraticus/foco-financeiro/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fake   *testutil.FakeAPI
	slot   *storage.TokenSlot
	client *api.Client
	store  *Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	fake.AddUser("alice", "pw")

	slot := storage.NewTokenSlot(storage.NewMemoryStorage())
	client := api.NewClient(fake.URL(), slot)
	store, err := NewStore(context.Background(), slot, client)
	require.NoError(t, err)

	return &fixture{fake: fake, slot: slot, client: client, store: store}
}

func TestStore_StartsAnonymous(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, model.StatusAnonymous, f.store.Status())
	assert.False(t, f.store.IsAuthenticated())
	assert.Empty(t, f.store.Token())
}

func TestStore_RestoresPersistedToken(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewTokenSlot(storage.NewMemoryStorage())
	require.NoError(t, slot.SetToken(ctx, "T9"))

	store, err := NewStore(ctx, slot, nil)
	require.NoError(t, err)

	assert.Equal(t, model.StatusAuthenticated, store.Status())
	assert.Equal(t, "T9", store.Token())
}

func TestStore_LoginPersistsBeforeNotifying(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var seen []model.SessionStatus
	var persisted string
	var authorization string
	f.store.Subscribe(func(status model.SessionStatus) {
		seen = append(seen, status)
		persisted, _ = f.slot.Token(ctx)
		// A request fired from inside the notification must carry the new token.
		_, _ = f.client.ListCategorias(ctx)
		reqs := f.fake.RequestsTo("GET", api.EndpointCategorias)
		if len(reqs) > 0 {
			authorization = reqs[len(reqs)-1].Authorization
		}
	})

	require.NoError(t, f.store.Login(ctx, "alice", "pw"))

	assert.Equal(t, []model.SessionStatus{model.StatusAuthenticated}, seen)
	assert.Equal(t, "T1", persisted)
	assert.Equal(t, "Bearer T1", authorization)
	assert.Equal(t, "T1", f.store.Token())
}

func TestStore_LoginRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	notified := false
	f.store.Subscribe(func(model.SessionStatus) { notified = true })

	err := f.store.Login(ctx, "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, testutil.MsgInvalidCredentials, err.Error())
	assert.False(t, notified)
	assert.False(t, f.store.IsAuthenticated())

	token, err := f.slot.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_LoginWithoutToken(t *testing.T) {
	f := newFixture(t)
	f.fake.Fail("POST", api.EndpointLogin, 200, `{}`)

	err := f.store.Login(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, common.ErrMissingToken)
	assert.False(t, f.store.IsAuthenticated())
}

func TestStore_RegisterLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	notified := false
	f.store.Subscribe(func(model.SessionStatus) { notified = true })

	require.NoError(t, f.store.Register(ctx, "bob", "pw"))
	assert.False(t, notified)
	assert.False(t, f.store.IsAuthenticated())

	err := f.store.Register(ctx, "bob", "pw")
	require.Error(t, err)
	assert.Equal(t, testutil.MsgUserExists, err.Error())
}

func TestStore_LogoutClearsSlotBeforeNotifying(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Login(ctx, "alice", "pw"))

	var seen []model.SessionStatus
	var persisted = "unset"
	f.store.Subscribe(func(status model.SessionStatus) {
		seen = append(seen, status)
		persisted, _ = f.slot.Token(ctx)
		_, _ = f.client.ListLancamentos(ctx)
	})

	require.NoError(t, f.store.Logout(ctx))

	assert.Equal(t, []model.SessionStatus{model.StatusAnonymous}, seen)
	assert.Empty(t, persisted)
	assert.False(t, f.store.IsAuthenticated())

	reqs := f.fake.RequestsTo("GET", api.EndpointLancamentos)
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Authorization)
}

func TestStore_LogoutWhileAnonymousDoesNotNotify(t *testing.T) {
	f := newFixture(t)

	notified := false
	f.store.Subscribe(func(model.SessionStatus) { notified = true })

	require.NoError(t, f.store.Logout(context.Background()))
	assert.False(t, notified)
}

func TestStore_Unsubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var calls []string
	unsubscribeA := f.store.Subscribe(func(model.SessionStatus) { calls = append(calls, "a") })
	f.store.Subscribe(func(model.SessionStatus) { calls = append(calls, "b") })

	require.NoError(t, f.store.Login(ctx, "alice", "pw"))
	unsubscribeA()
	unsubscribeA()
	require.NoError(t, f.store.Logout(ctx))

	assert.Equal(t, []string{"a", "b", "b"}, calls)
}

type failingSlot struct {
	err error
}

func (f failingSlot) Token(context.Context) (string, error)   { return "", f.err }
func (f failingSlot) SetToken(context.Context, string) error { return f.err }
func (f failingSlot) ClearToken(context.Context) error       { return f.err }

func TestStore_SlotFailures(t *testing.T) {
	ctx := context.Background()
	diskErr := errors.New("disk full")

	_, err := NewStore(ctx, failingSlot{err: diskErr}, nil)
	require.ErrorIs(t, err, diskErr)

	fake := testutil.NewFakeAPI(t)
	fake.AddUser("alice", "pw")
	slot := storage.NewTokenSlot(storage.NewMemoryStorage())
	store, err := NewStore(ctx, slot, api.NewClient(fake.URL(), slot))
	require.NoError(t, err)
	store.slot = failingSlot{err: diskErr}

	require.ErrorIs(t, store.Login(ctx, "alice", "pw"), diskErr)
	assert.False(t, store.IsAuthenticated(), "memory must not change when the slot write fails")
}
