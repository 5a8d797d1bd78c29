package storage

import (
	"context"
	"testing"
	"time"

	"github.com/pennywise-cli/pennywise/internal/common"
	"github.com/pennywise-cli/pennywise/internal/model"
	"github.com/pennywise-cli/pennywise/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTransactionCreateAndGet(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := &model.Transaction{
		Date:        date(2025, time.May, 1),
		Description: "Starbucks coffee",
		Amount:      -5.0,
		RawText:     "STARBUCKS STORE 1234 SEATTLE WA",
		Category:    model.CategoryFoodDrink,
	}
	require.NoError(t, store.CreateTransaction(ctx, txn))
	require.NotEmpty(t, txn.ID, "ID assigned on create")

	got, err := store.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "Starbucks coffee", got.Description)
	assert.InDelta(t, -5.0, got.Amount, 0.001)
	assert.Equal(t, "STARBUCKS STORE 1234 SEATTLE WA", got.RawText)
	assert.Equal(t, model.CategoryFoodDrink, got.Category)
}

func TestTransactionCreate_DefaultsToUncategorized(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := &model.Transaction{
		Date:        date(2025, time.May, 1),
		Description: "mystery charge",
		Amount:      -10.0,
	}
	require.NoError(t, store.CreateTransaction(ctx, txn))

	got, err := store.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryUncategorized, got.Category)
}

func TestTransactionCreate_DuplicateID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := &model.Transaction{
		ID:          "stmt-1",
		Date:        date(2025, time.May, 1),
		Description: "coffee",
		Amount:      -5.0,
	}
	require.NoError(t, store.CreateTransaction(ctx, txn))

	err := store.CreateTransaction(ctx, &model.Transaction{
		ID:          "stmt-1",
		Date:        date(2025, time.May, 2),
		Description: "coffee again",
		Amount:      -6.0,
	})
	require.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestGetTransaction_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetTransaction(context.Background(), "no-such-id")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateTransactionCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := &model.Transaction{
		Date:        date(2025, time.May, 2),
		Description: "gym",
		Amount:      -30.0,
		Category:    model.CategoryOther,
	}
	require.NoError(t, store.CreateTransaction(ctx, txn))

	require.NoError(t, store.UpdateTransactionCategory(ctx, txn.ID, model.CategoryHealthcare))

	got, err := store.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryHealthcare, got.Category)
}

func TestUpdateTransactionCategory_NotFound(t *testing.T) {
	store := newTestStorage(t)

	err := store.UpdateTransactionCategory(context.Background(), "missing", model.CategoryOther)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateTransactionCategory_InvalidCategory(t *testing.T) {
	store := newTestStorage(t)

	err := store.UpdateTransactionCategory(context.Background(), "any", "Gadgets")
	require.ErrorIs(t, err, common.ErrInvalidCategory)
}

func TestSaveTransactions_BatchAndIdempotence(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		{ID: "a", Date: date(2025, time.May, 1), Description: "Paycheck", Amount: 2000.0, Category: model.CategoryIncome},
		{ID: "b", Date: date(2025, time.May, 3), Description: "Rent", Amount: -1500.0, Category: model.CategoryHousing},
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	// Re-importing the same statement must not duplicate rows.
	require.NoError(t, store.SaveTransactions(ctx, txns))

	all, err := store.ListTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListTransactions_OrderAndPagination(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for i, day := range []int{5, 1, 9} {
		require.NoError(t, store.CreateTransaction(ctx, &model.Transaction{
			ID:          string(rune('a' + i)),
			Date:        date(2025, time.May, day),
			Description: "txn",
			Amount:      -1.0,
		}))
	}

	all, err := store.ListTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 9, all[0].Date.Day(), "newest first")
	assert.Equal(t, 1, all[2].Date.Day())

	page, err := store.ListTransactions(ctx, service.TransactionFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 5, page[0].Date.Day())
}

func TestMonthlySpendingSummary(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	owner := int64(1)

	txns := []model.Transaction{
		{ID: "t1", Date: date(2025, time.May, 1), Description: "Rent", Amount: -1500.0, Category: model.CategoryHousing},
		{ID: "t2", Date: date(2025, time.May, 10), Description: "Groceries", Amount: -120.0, Category: model.CategoryFoodDrink},
		{ID: "t3", Date: date(2025, time.May, 12), Description: "Lunch", Amount: -30.0, Category: model.CategoryFoodDrink},
		// Income rows are excluded from spending summaries.
		{ID: "t4", Date: date(2025, time.May, 15), Description: "Paycheck", Amount: 2000.0, Category: model.CategoryIncome},
		// Other months excluded.
		{ID: "t5", Date: date(2025, time.June, 1), Description: "Rent", Amount: -1500.0, Category: model.CategoryHousing},
		// Other owners excluded from the global scope.
		{ID: "t6", Date: date(2025, time.May, 20), Description: "Cinema", Amount: -15.0, Category: model.CategoryEntertainment, OwnerID: &owner},
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	totals, err := store.MonthlySpendingSummary(ctx, 2025, time.May, nil)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	byCategory := make(map[model.Category]float64)
	for _, ct := range totals {
		byCategory[ct.Category] = ct.Total
	}
	assert.InDelta(t, -1500.0, byCategory[model.CategoryHousing], 0.001)
	assert.InDelta(t, -150.0, byCategory[model.CategoryFoodDrink], 0.001)

	ownerTotals, err := store.MonthlySpendingSummary(ctx, 2025, time.May, &owner)
	require.NoError(t, err)
	require.Len(t, ownerTotals, 1)
	assert.Equal(t, model.CategoryEntertainment, ownerTotals[0].Category)
}
