package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finanzas-app/backend/internal/model"
)

func TestMemoryStoreBudgetUniqueness(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateBudget(ctx, &model.Budget{
		UserID: "u1", CategoryID: "c1", Month: "2025-03", LimitAmount: 300,
	}))

	err := s.CreateBudget(ctx, &model.Budget{
		UserID: "u1", CategoryID: "c1", Month: "2025-03", LimitAmount: 400,
	})
	assert.Error(t, err, "duplicate (user, category, month) must be rejected")

	// Same category in a different month is fine.
	assert.NoError(t, s.CreateBudget(ctx, &model.Budget{
		UserID: "u1", CategoryID: "c1", Month: "2025-04", LimitAmount: 300,
	}))
}

func TestMemoryStoreListTransactions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateTransaction(ctx, &model.Transaction{
		UserID: "u1", Type: model.TransactionTypeExpense, Amount: 10, Date: jan, CategoryID: "c1",
	}))
	require.NoError(t, s.CreateTransaction(ctx, &model.Transaction{
		UserID: "u1", Type: model.TransactionTypeIncome, Amount: 100, Date: feb,
	}))
	require.NoError(t, s.CreateTransaction(ctx, &model.Transaction{
		UserID: "u2", Type: model.TransactionTypeExpense, Amount: 99, Date: jan,
	}))

	t.Run("scoped to user, ordered by date", func(t *testing.T) {
		txns, err := s.ListTransactions(ctx, "u1", TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.True(t, txns[0].Date.Before(txns[1].Date))
	})

	t.Run("type filter", func(t *testing.T) {
		txns, err := s.ListTransactions(ctx, "u1", TransactionFilter{Type: model.TransactionTypeExpense})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, 10.0, txns[0].Amount)
	})

	t.Run("date range filter", func(t *testing.T) {
		start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)
		txns, err := s.ListTransactions(ctx, "u1", TransactionFilter{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, model.TransactionTypeIncome, txns[0].Type)
	})
}

func TestMemoryStoreListItemPurchases(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, p := range []*model.ItemPurchase{
		{ItemID: "it-1", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Quantity: 1},
		{ItemID: "it-2", Date: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), Quantity: 2},
		{ItemID: "it-1", Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), Quantity: 3},
	} {
		require.NoError(t, s.CreateItemPurchase(ctx, "u1", p))
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	t.Run("window filter", func(t *testing.T) {
		rows, err := s.ListItemPurchases(ctx, "u1", start, end, nil)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("item filter", func(t *testing.T) {
		rows, err := s.ListItemPurchases(ctx, "u1", start, end, []string{"it-2"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "it-2", rows[0].ItemID)
	})

	t.Run("other user sees nothing", func(t *testing.T) {
		rows, err := s.ListItemPurchases(ctx, "u2", start, end, nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestMemoryStoreItemCatalog(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	reduced := &model.Tax{UserID: "u1", Name: "IVA reducido", Rate: 10}
	require.NoError(t, s.CreateTax(ctx, reduced))
	require.NotEmpty(t, reduced.ID)
	require.NoError(t, s.CreateTax(ctx, &model.Tax{UserID: "u1", Name: "Exento", IsExempt: true}))
	require.NoError(t, s.CreateTax(ctx, &model.Tax{UserID: "u2", Name: "IVA general", Rate: 21}))

	require.NoError(t, s.CreateItem(ctx, &model.Item{UserID: "u1", Name: "Leche", TaxID: reduced.ID}))
	require.NoError(t, s.CreateItem(ctx, &model.Item{UserID: "u1", Name: "Café", TaxID: reduced.ID}))
	require.NoError(t, s.CreateItem(ctx, &model.Item{UserID: "u2", Name: "Pan"}))

	t.Run("taxes scoped to user, ordered by name", func(t *testing.T) {
		taxes, err := s.ListTaxes(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, taxes, 2)
		assert.Equal(t, "Exento", taxes[0].Name)
		assert.Equal(t, "IVA reducido", taxes[1].Name)
	})

	t.Run("items scoped to user, ordered by name, tax resolvable", func(t *testing.T) {
		items, err := s.ListItems(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Café", items[0].Name)
		assert.Equal(t, "Leche", items[1].Name)
		assert.Equal(t, reduced.ID, items[1].TaxID)
	})
}
