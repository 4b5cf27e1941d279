package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcomptable/smartcomptable/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testExpense(id, date string, amount float64) models.ExpenseRecord {
	return models.ExpenseRecord{
		ID:          id,
		Date:        date,
		Amount:      amount,
		Supplier:    "EDF",
		Category:    "Électricité",
		Description: "facture",
		TVARate:     20.0,
		Validated:   true,
		CreatedAt:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNew_SeedsDefaultCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.db")

	store, err := New(path)
	require.NoError(t, err)

	names, err := store.ListCategoryNames(context.Background(), "fr")
	require.NoError(t, err)
	assert.Len(t, names, 10)
	assert.Contains(t, names, "Fournitures")
	assert.Contains(t, names, "Autre")
	assert.IsIncreasing(t, names)
	require.NoError(t, store.Close())

	// Reopening must not duplicate the seed set.
	store, err = New(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	names, err = store.ListCategoryNames(context.Background(), "se")
	require.NoError(t, err)
	assert.Len(t, names, 10)
	assert.Contains(t, names, "Övrigt")
}

func TestStore_SaveExpense_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	siret := "12345678901234"
	rec := testExpense("a1b2c3d4", "2024-03-01", 42.50)
	rec.SIRET = &siret
	rec.FilePath = "uploads/doc.pdf"

	require.NoError(t, store.SaveExpense(ctx, rec))

	got, err := store.ListExpenses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, rec.ID, got[0].ID)
	assert.Equal(t, rec.Date, got[0].Date)
	assert.Equal(t, rec.Amount, got[0].Amount)
	assert.Equal(t, rec.Supplier, got[0].Supplier)
	assert.Equal(t, rec.Category, got[0].Category)
	assert.Equal(t, rec.Description, got[0].Description)
	assert.Equal(t, rec.FilePath, got[0].FilePath)
	require.NotNil(t, got[0].SIRET)
	assert.Equal(t, siret, *got[0].SIRET)
	assert.Equal(t, rec.TVARate, got[0].TVARate)
	assert.True(t, got[0].Validated)
	assert.Equal(t, rec.CreatedAt, got[0].CreatedAt)
}

func TestStore_SaveExpense_DuplicateID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveExpense(ctx, testExpense("dupe0001", "2024-03-01", 10)))

	err := store.SaveExpense(ctx, testExpense("dupe0001", "2024-04-01", 20))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExpenseExists))

	// The failed insert must not have left a partial row.
	got, err := store.ListExpenses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-03-01", got[0].Date)
}

func TestStore_ListExpenses_YearFilterAndOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveExpense(ctx, testExpense("id000001", "2023-05-01", 10)))
	require.NoError(t, store.SaveExpense(ctx, testExpense("id000002", "2024-01-15", 20)))
	require.NoError(t, store.SaveExpense(ctx, testExpense("id000003", "2024-11-30", 30)))

	year := 2024
	got, err := store.ListExpenses(ctx, &year)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-11-30", got[0].Date)
	assert.Equal(t, "2024-01-15", got[1].Date)

	all, err := store.ListExpenses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-11-30", all[0].Date)
	assert.Equal(t, "2024-01-15", all[1].Date)
	assert.Equal(t, "2023-05-01", all[2].Date)

	empty := 1999
	none, err := store.ListExpenses(ctx, &empty)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_DeleteExpense_ReportsFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveExpense(ctx, testExpense("gone0001", "2024-03-01", 10)))

	deleted, err := store.DeleteExpense(ctx, "gone0001")
	require.NoError(t, err)
	assert.True(t, deleted)

	// Second delete of the same id is a no-op reported as not found.
	deleted, err = store.DeleteExpense(ctx, "gone0001")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.DeleteExpense(ctx, "never-existed")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_WipeExpenses(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveExpense(ctx, testExpense("wipe0001", "2024-03-01", 10)))
	require.NoError(t, store.SaveExpense(ctx, testExpense("wipe0002", "2024-03-02", 20)))

	count, err := store.WipeExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := store.ListExpenses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Subscriptions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	got, err := store.GetSubscription(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertSubscription(ctx, models.SubscriptionRecord{
		Email:           "bob@example.com",
		SubscriptionEnd: &end,
		IsAdmin:         true,
	}))

	got, err = store.GetSubscription(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "bob@example.com", got.Email)
	require.NotNil(t, got.SubscriptionEnd)
	assert.True(t, end.Equal(*got.SubscriptionEnd))
	assert.True(t, got.IsAdmin)

	// Upsert replaces the record wholesale, including the admin flag.
	require.NoError(t, store.UpsertSubscription(ctx, models.SubscriptionRecord{
		Email:           "bob@example.com",
		SubscriptionEnd: &end,
		IsAdmin:         false,
	}))
	got, err = store.GetSubscription(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsAdmin)
}

func TestStore_SetAdmin(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Unknown email: record created with the flag and no end date.
	require.NoError(t, store.SetAdmin(ctx, "root@example.com"))
	got, err := store.GetSubscription(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsAdmin)
	assert.Nil(t, got.SubscriptionEnd)

	// Existing email: only the flag changes, the end date stays.
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertSubscription(ctx, models.SubscriptionRecord{
		Email:           "alice@example.com",
		SubscriptionEnd: &end,
	}))
	require.NoError(t, store.SetAdmin(ctx, "alice@example.com"))

	got, err = store.GetSubscription(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsAdmin)
	require.NotNil(t, got.SubscriptionEnd)
	assert.True(t, end.Equal(*got.SubscriptionEnd))
}

func TestStore_WipeSubscriptions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertSubscription(ctx, models.SubscriptionRecord{
		Email: "bob@example.com", SubscriptionEnd: &end,
	}))
	require.NoError(t, store.SetAdmin(ctx, "root@example.com"))

	count, err := store.WipeSubscriptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := store.GetSubscription(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_AddCategory_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	cat := models.Category{NameFR: "Téléphonie", NameSE: "Telefoni"}
	require.NoError(t, store.AddCategory(ctx, cat))
	require.NoError(t, store.AddCategory(ctx, cat))

	names, err := store.ListCategoryNames(ctx, "fr")
	require.NoError(t, err)
	assert.Len(t, names, 11)
	assert.Contains(t, names, "Téléphonie")
}
