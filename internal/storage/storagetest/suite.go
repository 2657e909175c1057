// Package storagetest holds behaviour tests shared by every storage.Store
// implementation.
package storagetest

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// Run exercises store against the storage.Store contract. open must return a
// fresh, empty store; Run closes it.
func Run(t *testing.T, open func(t *testing.T) storage.Store) {
	t.Run("Groups", func(t *testing.T) { testGroups(t, open(t)) })
	t.Run("Members", func(t *testing.T) { testMembers(t, open(t)) })
	t.Run("Expenses", func(t *testing.T) { testExpenses(t, open(t)) })
	t.Run("Settlements", func(t *testing.T) { testSettlements(t, open(t)) })
	t.Run("ConcurrentUpdate", func(t *testing.T) { testConcurrentUpdate(t, open(t)) })
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testGroups(t *testing.T, store storage.Store) {
	defer store.Close()
	ctx := context.Background()

	group := &models.Group{Name: "Lisbon trip", CreatorID: "carol", Members: []string{"carol", "alice", "bob"}}
	require.NoError(t, store.CreateGroup(ctx, group))
	require.NotEmpty(t, group.ID, "expected group ID to be generated")
	require.NotZero(t, group.CreatedAt)

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon trip", got.Name)
	assert.Equal(t, "carol", got.CreatorID)
	assert.Equal(t, []string{"carol", "alice", "bob"}, got.Members)

	require.NoError(t, store.AddGroupMembers(ctx, group.ID, []string{"bob", "dave", "erin"}))
	got, err = store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "alice", "bob", "dave", "erin"}, got.Members)

	_, err = store.GetGroup(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, store.AddGroupMembers(ctx, "missing", []string{"x"}), models.ErrNotFound)
}

func testMembers(t *testing.T, store storage.Store) {
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.UpsertMember(ctx, &models.Member{ID: "alice", Name: "Alice", Email: "alice@example.com"}))
	require.NoError(t, store.UpsertMember(ctx, &models.Member{ID: "bob", Name: "Bob", PreferredCurrency: "EUR"}))

	require.NoError(t, store.SetPreferredCurrency(ctx, "alice", "INR"))
	// a later upsert refreshes the name but keeps email and currency
	require.NoError(t, store.UpsertMember(ctx, &models.Member{ID: "alice", Name: "Alice B."}))

	members, err := store.GetMembersByIDs(ctx, []string{"alice", "bob", "ghost"})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Alice B.", members["alice"].Name)
	assert.Equal(t, "alice@example.com", members["alice"].Email)
	assert.Equal(t, "INR", members["alice"].PreferredCurrency)
	assert.Equal(t, "EUR", members["bob"].PreferredCurrency)

	members, err = store.GetMembersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, members)

	assert.ErrorIs(t, store.SetPreferredCurrency(ctx, "ghost", "USD"), models.ErrNotFound)
}

func testExpenses(t *testing.T, store storage.Store) {
	defer store.Close()
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"a", "b", "c"}}
	require.NoError(t, store.CreateGroup(ctx, group))
	other := &models.Group{Name: "Other", Members: []string{"a"}}
	require.NoError(t, store.CreateGroup(ctx, other))

	dinner := &models.Expense{
		GroupID:     group.ID,
		Description: "Dinner",
		Amount:      dec("16600"),
		Currency:    "INR",
		PayerID:     "a",
		SplitType:   models.SplitEqual,
		Splits: []models.Split{
			{MemberID: "c", Amount: dec("5533.34")},
			{MemberID: "a", Amount: dec("5533.33")},
			{MemberID: "b", Amount: dec("5533.33")},
		},
		CreatedAt: 100,
	}
	coffee := &models.Expense{
		GroupID:   group.ID,
		Amount:    dec("4.5"),
		Currency:  "EUR",
		PayerID:   "b",
		SplitType: models.SplitNone,
		CreatedAt: 200,
	}
	require.NoError(t, store.CreateExpense(ctx, dinner))
	require.NoError(t, store.CreateExpense(ctx, coffee))
	require.NotEmpty(t, dinner.ID)

	expenses, err := store.ListExpensesByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	got := expenses[0]
	assert.Equal(t, dinner.ID, got.ID)
	assert.Equal(t, "Dinner", got.Description)
	assert.True(t, got.Amount.Equal(dec("16600")), "amount = %s", got.Amount)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, models.SplitEqual, got.SplitType)
	require.Len(t, got.Splits, 3)
	assert.Equal(t, "c", got.Splits[0].MemberID)
	assert.Equal(t, "5533.34", got.Splits[0].Amount.StringFixed(2))

	assert.Equal(t, models.SplitNone, expenses[1].SplitType)
	assert.Empty(t, expenses[1].Splits)

	expenses, err = store.ListExpensesByGroup(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func testSettlements(t *testing.T, store storage.Store) {
	defer store.Close()
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"a", "b"}}
	require.NoError(t, store.CreateGroup(ctx, group))
	other := &models.Group{Name: "Other", Members: []string{"a", "b"}}
	require.NoError(t, store.CreateGroup(ctx, other))

	first := &models.Settlement{
		GroupID:         group.ID,
		FromID:          "b",
		ToID:            "a",
		Amount:          dec("61.48"),
		Currency:        "EUR",
		AmountReference: dec("66.40"),
		Notes:           "bank transfer",
		CreatedBy:       "b",
		CreatedAt:       100,
	}
	require.NoError(t, store.CreateSettlement(ctx, first))
	require.NotEmpty(t, first.ID)
	assert.Equal(t, models.StatusPending, first.Status)

	second := &models.Settlement{
		GroupID: group.ID, FromID: "a", ToID: "b", Amount: dec("1"), Currency: "USD",
		AmountReference: dec("1"), CreatedBy: "a", CreatedAt: 200,
	}
	require.NoError(t, store.CreateSettlement(ctx, second))

	got, err := store.GetSettlement(ctx, group.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.FromID)
	assert.Equal(t, "a", got.ToID)
	assert.Equal(t, "61.48", got.Amount.StringFixed(2))
	assert.Equal(t, "66.40", got.AmountReference.StringFixed(2))
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, "bank transfer", got.Notes)

	_, err = store.GetSettlement(ctx, other.ID, first.ID)
	assert.ErrorIs(t, err, models.ErrNotFound, "settlement must not be visible from another group")
	_, err = store.GetSettlement(ctx, group.ID, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	list, err := store.ListSettlementsByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	list, err = store.ListSettlementsByGroup(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	got.Status = models.StatusVerified
	got.VerifiedBy = "a"
	got.VerifiedAt = 300
	require.NoError(t, store.UpdateSettlement(ctx, got, models.StatusPending))

	got, err = store.GetSettlement(ctx, group.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, got.Status)
	assert.Equal(t, "a", got.VerifiedBy)
	assert.Equal(t, int64(300), got.VerifiedAt)

	// stale expectation
	got.Status = models.StatusCompleted
	assert.ErrorIs(t, store.UpdateSettlement(ctx, got, models.StatusPending), storage.ErrConflict)

	// wrong group
	moved := *got
	moved.GroupID = other.ID
	assert.ErrorIs(t, store.UpdateSettlement(ctx, &moved, models.StatusVerified), storage.ErrConflict)
}

func testConcurrentUpdate(t *testing.T, store storage.Store) {
	defer store.Close()
	ctx := context.Background()

	group := &models.Group{Name: "Race", Members: []string{"a", "b"}}
	require.NoError(t, store.CreateGroup(ctx, group))
	settlement := &models.Settlement{
		GroupID: group.ID, FromID: "a", ToID: "b", Amount: dec("10"), Currency: "USD",
		AmountReference: dec("10"), CreatedBy: "a",
	}
	require.NoError(t, store.CreateSettlement(ctx, settlement))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			update := *settlement
			update.Status = models.StatusCompleted
			update.CompletedAt = 1
			err := store.UpdateSettlement(ctx, &update, models.StatusPending)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, storage.ErrConflict)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}
