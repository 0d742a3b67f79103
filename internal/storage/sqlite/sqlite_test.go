package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, store.CreateUser(ctx, alice))

	t.Run("duplicate email", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash"))
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("lookup by email and id", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)

		byID, err := store.GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", byID.DisplayName)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.GetUserByID(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("batch lookup skips unknown ids", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, "ghost"})
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Contains(t, users, alice.ID)

		empty, err := store.GetUsersByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestHouseholds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	household := &models.Household{
		Name:       "Flat 3B",
		InviteCode: "ABCD1234",
		Members:    []string{"alice"},
		AutoSplit:  true,
	}
	require.NoError(t, store.CreateHousehold(ctx, household))
	assert.NotEmpty(t, household.ID)
	assert.NotZero(t, household.CreatedAt)

	t.Run("invite codes are unique", func(t *testing.T) {
		err := store.CreateHousehold(ctx, &models.Household{Name: "Other", InviteCode: "ABCD1234"})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("join by invite code", func(t *testing.T) {
		found, err := store.GetHouseholdByInviteCode(ctx, "ABCD1234")
		require.NoError(t, err)
		assert.Equal(t, household.ID, found.ID)

		require.NoError(t, store.AddHouseholdMembers(ctx, found.ID, []string{"bob", "alice"}))

		got, err := store.GetHousehold(ctx, household.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, got.Members)
		assert.True(t, got.AutoSplit)
	})

	t.Run("list by member", func(t *testing.T) {
		other := &models.Household{Name: "Cabin", InviteCode: "ZZZZ0000", Members: []string{"bob"}}
		require.NoError(t, store.CreateHousehold(ctx, other))

		forBob, err := store.ListHouseholdsByMember(ctx, "bob")
		require.NoError(t, err)
		assert.Len(t, forBob, 2)

		forAlice, err := store.ListHouseholdsByMember(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, forAlice, 1)
		assert.Equal(t, "Flat 3B", forAlice[0].Name)
	})

	t.Run("missing household", func(t *testing.T) {
		_, err := store.GetHousehold(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.GetHouseholdByInviteCode(ctx, "NOPE")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	household := &models.Household{Name: "Flat", InviteCode: "FLAT0001", Members: []string{"alice", "bob", "carol"}}
	require.NoError(t, store.CreateHousehold(ctx, household))

	expense := &models.Expense{
		HouseholdID: household.ID,
		PayerID:     "alice",
		Description: "Groceries",
		Category:    "Food",
		Amount:      dec("10.01"),
		Date:        1700000000,
		SplitMode:   models.SplitEven,
		Shares: []models.Share{
			{UserID: "alice", Amount: dec("3.33"), IsPaid: true},
			{UserID: "bob", Amount: dec("3.33")},
			{UserID: "carol", Amount: dec("3.35")},
		},
	}
	require.NoError(t, store.CreateExpense(ctx, expense))
	require.NotEmpty(t, expense.ID)

	t.Run("round trips amounts and share order", func(t *testing.T) {
		got, err := store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(dec("10.01")), "amount = %s", got.Amount)
		assert.Equal(t, []string{"alice", "bob", "carol"}, got.Participants())
		assert.True(t, got.Shares[2].Amount.Equal(dec("3.35")))
		assert.True(t, got.Shares[0].IsPaid)
		assert.False(t, got.Shares[1].IsPaid)
		assert.Equal(t, models.SplitEven, got.SplitMode)
		assert.Empty(t, got.Notes)
	})

	t.Run("duplicate share holder rolls back", func(t *testing.T) {
		bad := &models.Expense{
			PayerID:     "alice",
			Description: "Broken",
			Category:    "Misc",
			Amount:      dec("2.00"),
			SplitMode:   models.SplitCustom,
			Shares: []models.Share{
				{UserID: "bob", Amount: dec("1.00")},
				{UserID: "bob", Amount: dec("1.00")},
			},
		}
		err := store.CreateExpense(ctx, bad)
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)

		_, err = store.GetExpense(ctx, bad.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("amounts beyond int64 cents are refused", func(t *testing.T) {
		huge := &models.Expense{
			PayerID:     "alice",
			Description: "Too much",
			Category:    "Misc",
			Amount:      dec("100000000000000000"),
			SplitMode:   models.SplitEven,
		}
		assert.ErrorIs(t, store.CreateExpense(ctx, huge), calculator.ErrAmountOutOfRange)

		hugeShare := &models.Expense{
			PayerID:     "alice",
			Description: "Too much share",
			Category:    "Misc",
			Amount:      dec("1.00"),
			SplitMode:   models.SplitCustom,
			Shares:      []models.Share{{UserID: "bob", Amount: dec("100000000000000000")}},
		}
		assert.ErrorIs(t, store.CreateExpense(ctx, hugeShare), calculator.ErrAmountOutOfRange)
		_, err := store.GetExpense(ctx, hugeShare.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update replaces shares", func(t *testing.T) {
		expense.Amount = dec("30.00")
		expense.SplitMode = models.SplitCustom
		expense.Notes = "receipt lost"
		expense.Shares = []models.Share{
			{UserID: "bob", Amount: dec("20.00")},
			{UserID: "carol", Amount: dec("10.00")},
		}
		require.NoError(t, store.UpdateExpense(ctx, expense))

		got, err := store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(dec("30")))
		assert.Equal(t, []string{"bob", "carol"}, got.Participants())
		assert.Equal(t, "receipt lost", got.Notes)
	})

	t.Run("list by household and user", func(t *testing.T) {
		personal := &models.Expense{
			PayerID:     "dave",
			Description: "Lunch",
			Category:    "Food",
			Amount:      dec("12.50"),
			Date:        1700100000,
			SplitMode:   models.SplitEven,
			Shares:      []models.Share{{UserID: "carol", Amount: dec("12.50")}},
		}
		require.NoError(t, store.CreateExpense(ctx, personal))

		inHousehold, err := store.ListExpensesByHousehold(ctx, household.ID)
		require.NoError(t, err)
		require.Len(t, inHousehold, 1)
		assert.Len(t, inHousehold[0].Shares, 2)

		forCarol, err := store.ListExpensesByUser(ctx, "carol")
		require.NoError(t, err)
		require.Len(t, forCarol, 2)
		assert.Equal(t, personal.ID, forCarol[0].ID, "newest first")

		forDave, err := store.ListExpensesByUser(ctx, "dave")
		require.NoError(t, err)
		assert.Len(t, forDave, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteExpense(ctx, expense.ID))
		_, err := store.GetExpense(ctx, expense.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteExpense(ctx, expense.ID), storage.ErrNotFound)
	})

	t.Run("update missing expense", func(t *testing.T) {
		err := store.UpdateExpense(ctx, &models.Expense{ID: "nope", PayerID: "x", SplitMode: models.SplitEven})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.EnsureCategory(ctx, "alice", "Food")
	require.NoError(t, err)
	again, err := store.EnsureCategory(ctx, "alice", "Food")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = store.EnsureCategory(ctx, "alice", "Bills")
	require.NoError(t, err)
	_, err = store.EnsureCategory(ctx, "bob", "Food")
	require.NoError(t, err)

	categories, err := store.ListCategories(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Bills", categories[0].Name)
	assert.Equal(t, "Food", categories[1].Name)
}

func TestSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	household := &models.Household{Name: "Flat", InviteCode: "SETL0001", Members: []string{"alice", "bob"}}
	require.NoError(t, store.CreateHousehold(ctx, household))

	settlement := &models.Settlement{
		HouseholdID: household.ID,
		FromUserID:  "bob",
		ToUserID:    "alice",
		Amount:      dec("7.25"),
		CreatedBy:   "bob",
		Note:        "cash",
	}
	require.NoError(t, store.CreateSettlement(ctx, settlement))
	assert.NotEmpty(t, settlement.ID)

	list, err := store.ListSettlementsByHousehold(ctx, household.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Amount.Equal(dec("7.25")))
	assert.Equal(t, "cash", list[0].Note)

	err = store.CreateSettlement(ctx, &models.Settlement{
		HouseholdID: household.ID,
		FromUserID:  "bob",
		ToUserID:    "alice",
		Amount:      dec("92233720368547758.08"),
		CreatedBy:   "bob",
	})
	assert.ErrorIs(t, err, calculator.ErrAmountOutOfRange)

	empty, err := store.ListSettlementsByHousehold(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first, err := New(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
