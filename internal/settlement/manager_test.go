package settlement

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/internal/storage/memory"
)

type fixture struct {
	store   *memory.Store
	conv    *currency.Converter
	manager *Manager
	group   *models.Group
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conv, err := currency.NewConverter(currency.DefaultRates(), "USD")
	require.NoError(t, err)

	store := memory.New()
	group := &models.Group{Name: "Flat", CreatorID: "alice", Members: []string{"alice", "bob", "carol"}}
	require.NoError(t, store.CreateGroup(context.Background(), group))

	manager := NewManager(store, conv, nil)
	manager.now = func() time.Time { return time.Unix(1700000000, 0) }

	return &fixture{store: store, conv: conv, manager: manager, group: group}
}

// pending creates a settlement where bob pays alice.
func (f *fixture) pending(t *testing.T) *models.Settlement {
	t.Helper()
	s, err := f.manager.Create(context.Background(), CreateRequest{
		GroupID:  f.group.ID,
		ActorID:  "bob",
		FromID:   "bob",
		ToID:     "alice",
		Amount:   decimal.RequireFromString("61.48"),
		Currency: "eur",
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) req(s *models.Settlement, actor string) TransitionRequest {
	return TransitionRequest{GroupID: f.group.ID, SettlementID: s.ID, ActorID: actor}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	s := f.pending(t)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, models.StatusPending, s.Status)
	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, "66.40", s.AmountReference.StringFixed(2))
	assert.Equal(t, "bob", s.CreatedBy)
	assert.Equal(t, int64(1700000000), s.CreatedAt)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := CreateRequest{
		GroupID:  f.group.ID,
		ActorID:  "alice",
		FromID:   "bob",
		ToID:     "alice",
		Amount:   decimal.NewFromInt(10),
		Currency: "USD",
	}

	tests := []struct {
		name    string
		mutate  func(r *CreateRequest)
		wantErr error
	}{
		{"non-member actor", func(r *CreateRequest) { r.ActorID = "mallory" }, models.ErrForbidden},
		{"unknown group", func(r *CreateRequest) { r.GroupID = "missing" }, models.ErrNotFound},
		{"same parties", func(r *CreateRequest) { r.ToID = "bob" }, models.ErrInvalidArgument},
		{"payer outside group", func(r *CreateRequest) { r.FromID = "mallory" }, models.ErrInvalidArgument},
		{"receiver outside group", func(r *CreateRequest) { r.ToID = "mallory" }, models.ErrInvalidArgument},
		{"zero amount", func(r *CreateRequest) { r.Amount = decimal.Zero }, models.ErrInvalidArgument},
		{"negative amount", func(r *CreateRequest) { r.Amount = decimal.NewFromInt(-5) }, models.ErrInvalidArgument},
		{"unsupported currency", func(r *CreateRequest) { r.Currency = "XYZ" }, models.ErrUnsupportedCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := f.manager.Create(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLifecycle_VerifyThenComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.pending(t)

	// receiver cannot complete before verification
	_, err := f.manager.Complete(ctx, f.req(s, "alice"))
	require.ErrorIs(t, err, models.ErrInvalidState)
	var stateErr *models.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.StatusPending, stateErr.Current)

	req := f.req(s, "bob")
	req.Notes = "sent via bank"
	verified, err := f.manager.Verify(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, verified.Status)
	assert.Equal(t, "bob", verified.VerifiedBy)
	assert.Equal(t, int64(1700000000), verified.VerifiedAt)
	assert.Equal(t, "sent via bank", verified.Notes)

	// payer cannot complete
	_, err = f.manager.Complete(ctx, f.req(s, "bob"))
	assert.ErrorIs(t, err, models.ErrForbidden)

	completed, err := f.manager.Complete(ctx, f.req(s, "alice"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.Equal(t, int64(1700000000), completed.CompletedAt)

	stored, err := f.manager.Get(ctx, f.group.ID, s.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Equal(t, "sent via bank", stored.Notes)
}

func TestLifecycle_CompletedIsImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.pending(t)

	_, err := f.manager.Verify(ctx, f.req(s, "alice"))
	require.NoError(t, err)
	_, err = f.manager.Complete(ctx, f.req(s, "alice"))
	require.NoError(t, err)

	_, err = f.manager.Verify(ctx, f.req(s, "bob"))
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.Contains(t, err.Error(), "completed")

	_, err = f.manager.Complete(ctx, f.req(s, "alice"))
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestLifecycle_ReverifyIsAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.pending(t)

	_, err := f.manager.Verify(ctx, f.req(s, "bob"))
	require.NoError(t, err)
	again, err := f.manager.Verify(ctx, f.req(s, "alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", again.VerifiedBy)
}

func TestLifecycle_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.pending(t)

	// carol is in the group but not a party
	_, err := f.manager.Verify(ctx, f.req(s, "carol"))
	assert.ErrorIs(t, err, models.ErrForbidden)

	// mallory is not in the group at all
	_, err = f.manager.Verify(ctx, f.req(s, "mallory"))
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.manager.Get(ctx, f.group.ID, s.ID, "mallory")
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.manager.List(ctx, f.group.ID, "mallory")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestLifecycle_GroupScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.pending(t)

	other := &models.Group{Name: "Other", Members: []string{"alice", "bob"}}
	require.NoError(t, f.store.CreateGroup(ctx, other))

	// the settlement exists, but not in this group
	_, err := f.manager.Verify(ctx, TransitionRequest{GroupID: other.ID, SettlementID: s.ID, ActorID: "bob"})
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.manager.Get(ctx, other.ID, s.ID, "bob")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.manager.Verify(ctx, TransitionRequest{GroupID: f.group.ID, SettlementID: "missing", ActorID: "bob"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.pending(t)
	second := f.pending(t)

	list, err := f.manager.List(ctx, f.group.ID, "carol")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestLifecycle_ConcurrentComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.pending(t)
	_, err := f.manager.Verify(ctx, f.req(s, "bob"))
	require.NoError(t, err)

	const callers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		errs      []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.manager.Complete(ctx, f.req(s, "alice"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range errs {
		assert.ErrorIs(t, err, models.ErrInvalidState)
	}
}

// racingStore loses every compare-and-swap.
type racingStore struct {
	*memory.Store
	updates int
}

func (r *racingStore) UpdateSettlement(context.Context, *models.Settlement, models.SettlementStatus) error {
	r.updates++
	return storage.ErrConflict
}

func TestLifecycle_GivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture(t)
	s := f.pending(t)

	racing := &racingStore{Store: f.store}
	manager := NewManager(racing, f.conv, nil)

	_, err := manager.Verify(context.Background(), f.req(s, "bob"))
	assert.ErrorIs(t, err, storage.ErrConflict)
	assert.Equal(t, maxAttempts, racing.updates)
}
