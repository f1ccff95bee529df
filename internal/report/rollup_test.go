package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finanzas-app/backend/internal/model"
)

func expense(categoryID string, amount float64, date time.Time) *model.Transaction {
	return &model.Transaction{
		CategoryID: categoryID,
		Type:       model.TransactionTypeExpense,
		Amount:     amount,
		Date:       date,
	}
}

func income(amount float64, date time.Time) *model.Transaction {
	return &model.Transaction{
		Type:   model.TransactionTypeIncome,
		Amount: amount,
		Date:   date,
	}
}

var testDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func testCategories() map[string]*model.Category {
	return CategoryIndex([]*model.Category{
		{ID: "cat-food", Name: "Comida", Type: model.TransactionTypeExpense, StabilityType: model.StabilityVariable},
		{ID: "cat-rent", Name: "Alquiler", Type: model.TransactionTypeExpense, StabilityType: model.StabilityFixed},
		{ID: "cat-gifts", Name: "Regalos", Type: model.TransactionTypeExpense, StabilityType: model.StabilityOccasional},
		{ID: "cat-unclassified", Name: "Varios", Type: model.TransactionTypeExpense},
	})
}

func TestSumTransactionsByCommutativity(t *testing.T) {
	rows := []*model.Transaction{
		expense("cat-food", 10, testDate),
		expense("cat-food", 25.5, testDate),
		expense("cat-rent", 700, testDate),
		expense("", 3.2, testDate),
		expense("cat-food", 8.8, testDate),
		expense("cat-rent", 700, testDate),
	}
	key := func(tx *model.Transaction) string { return tx.CategoryID }

	whole := SumTransactionsBy(rows, key)

	// Any partition of the rows must merge back to the same totals.
	for split := 0; split <= len(rows); split++ {
		merged := MergeTotals(SumTransactionsBy(rows[:split], key), SumTransactionsBy(rows[split:], key))
		require.Len(t, merged, len(whole))
		for k, g := range whole {
			assert.InDelta(t, g.Total, merged[k].Total, 1e-9, "split %d key %s", split, k)
			assert.Equal(t, g.Count, merged[k].Count)
		}
	}
}

func TestCategoryResolution(t *testing.T) {
	cats := testCategories()

	t.Run("missing reference gets the placeholder label", func(t *testing.T) {
		assert.Equal(t, UncategorizedLabel, CategoryLabel(cats, ""))
		assert.Equal(t, UncategorizedLabel, CategoryLabel(cats, "deleted-cat"))
		assert.Equal(t, "Comida", CategoryLabel(cats, "cat-food"))
	})

	t.Run("unclassified spend defaults to variable", func(t *testing.T) {
		assert.Equal(t, model.StabilityVariable, StabilityOf(cats, "cat-unclassified"))
		assert.Equal(t, model.StabilityVariable, StabilityOf(cats, "missing"))
		assert.Equal(t, model.StabilityFixed, StabilityOf(cats, "cat-rent"))
	})
}

func TestCategorySummary(t *testing.T) {
	cats := testCategories()
	rows := []*model.Transaction{
		expense("cat-food", 120.50, testDate),
		expense("cat-rent", 700, testDate),
		expense("cat-food", 80, testDate),
		expense("deleted-cat", 15, testDate),
	}

	summary := CategorySummary(rows, cats)

	require.Len(t, summary, 3)
	assert.Equal(t, CategoryTotal{Category: "Alquiler", Total: 700}, summary[0])
	assert.Equal(t, CategoryTotal{Category: "Comida", Total: 200.50}, summary[1])
	assert.Equal(t, CategoryTotal{Category: UncategorizedLabel, Total: 15}, summary[2])
}

func TestCategorySummaryEmpty(t *testing.T) {
	summary := CategorySummary(nil, testCategories())
	assert.Empty(t, summary)
}

func TestStabilitySummary(t *testing.T) {
	cats := testCategories()
	rows := []*model.Transaction{
		expense("cat-rent", 700, testDate),
		expense("cat-food", 100, testDate),
		expense("cat-gifts", 50, testDate),
		expense("", 25, testDate), // defaults to variable
	}

	split := StabilitySummary(rows, cats)

	require.Len(t, split, 3)
	assert.Equal(t, StabilityTotal{StabilityType: model.StabilityFixed, Total: 700, Count: 1}, split[0])
	assert.Equal(t, StabilityTotal{StabilityType: model.StabilityVariable, Total: 125, Count: 2}, split[1])
	assert.Equal(t, StabilityTotal{StabilityType: model.StabilityOccasional, Total: 50, Count: 1}, split[2])
}

func TestBudgetVsActual(t *testing.T) {
	cats := testCategories()
	budgets := []*model.Budget{
		{CategoryID: "cat-food", Month: "2025-03", LimitAmount: 300},
		{CategoryID: "cat-rent", Month: "2025-03", LimitAmount: 500},
	}

	t.Run("budgeted category with no spend shows spent=0", func(t *testing.T) {
		rows := BudgetVsActual(budgets, nil, cats)

		require.Len(t, rows, 2)
		for _, r := range rows {
			assert.Zero(t, r.Spent)
			assert.Zero(t, r.Gastado)
		}
	})

	t.Run("spend without a budget still appears with limit=0", func(t *testing.T) {
		expenses := []*model.Transaction{expense("cat-gifts", 80, testDate)}
		rows := BudgetVsActual(budgets, expenses, cats)

		require.Len(t, rows, 3)
		assert.Equal(t, "Regalos", rows[0].Category)
		assert.Zero(t, rows[0].Limit)
		assert.Equal(t, 80.0, rows[0].Spent)
	})

	t.Run("alias fields carry identical values", func(t *testing.T) {
		expenses := []*model.Transaction{
			expense("cat-food", 120.333, testDate),
			expense("cat-food", 50, testDate),
		}
		rows := BudgetVsActual(budgets, expenses, cats)

		for _, r := range rows {
			assert.Equal(t, r.Limit, r.Presupuesto)
			assert.Equal(t, r.Spent, r.Gastado)
		}
	})
}

func TestOverBudget(t *testing.T) {
	cats := testCategories()
	budgets := []*model.Budget{
		{CategoryID: "cat-food", Month: "2025-03", LimitAmount: 300},
		{CategoryID: "cat-rent", Month: "2025-03", LimitAmount: 500},
	}

	t.Run("zero spend under a limit is not over budget", func(t *testing.T) {
		rows := OverBudget(BudgetVsActual(budgets, nil, cats))
		assert.Empty(t, rows)
	})

	t.Run("only exceeded budgets are reported", func(t *testing.T) {
		expenses := []*model.Transaction{
			expense("cat-food", 350, testDate), // over 300
			expense("cat-rent", 450, testDate), // under 500
		}
		rows := OverBudget(BudgetVsActual(budgets, expenses, cats))

		require.Len(t, rows, 1)
		assert.Equal(t, "Comida", rows[0].Category)
	})

	t.Run("spend with no budget row is never over budget", func(t *testing.T) {
		expenses := []*model.Transaction{expense("cat-gifts", 9999, testDate)}
		rows := OverBudget(BudgetVsActual(budgets, expenses, cats))
		assert.Empty(t, rows)
	})
}

func TestSumItemPurchasesBy(t *testing.T) {
	final := 40.0
	rows := []*model.ItemPurchase{
		{ItemID: "it-1", Quantity: 2, UnitPriceNet: 10, TaxRateUsed: 21},  // 24.2 recomputed
		{ItemID: "it-1", Quantity: 1, LineTotalFinal: &final},             // 40 authoritative
		{ItemID: "it-2", Quantity: 3, UnitPriceNet: 5, IsExemptUsed: true}, // 15 exempt
	}

	totals := SumItemPurchasesBy(rows, func(p *model.ItemPurchase) string { return p.ItemID })

	assert.InDelta(t, 64.2, totals["it-1"].Total, 1e-9)
	assert.Equal(t, 2, totals["it-1"].Count)
	assert.InDelta(t, 15.0, totals["it-2"].Total, 1e-9)
}
