package report

import (
	"sort"

	"github.com/finanzas-app/backend/internal/model"
)

// UncategorizedLabel is substituted whenever a transaction references a
// deleted or missing category. Rows are never dropped for lacking one;
// dropping them would silently corrupt totals.
const UncategorizedLabel = "Sin categoría"

// GroupTotal accumulates a single group during a rollup.
type GroupTotal struct {
	Total float64
	Count int
}

// CategoryIndex builds an id lookup for category resolution.
func CategoryIndex(categories []*model.Category) map[string]*model.Category {
	idx := make(map[string]*model.Category, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}

// CategoryLabel resolves a category id to its display name, substituting
// UncategorizedLabel for missing references.
func CategoryLabel(categories map[string]*model.Category, categoryID string) string {
	if c, ok := categories[categoryID]; ok && c.Name != "" {
		return c.Name
	}
	return UncategorizedLabel
}

// StabilityOf resolves a transaction's stability type through its category.
// Unclassified spend defaults to variable: it is assumed discretionary.
func StabilityOf(categories map[string]*model.Category, categoryID string) model.StabilityType {
	if c, ok := categories[categoryID]; ok && c.StabilityType != "" {
		return c.StabilityType
	}
	return model.StabilityVariable
}

// SumTransactionsBy reduces transactions into per-key totals. Grouping is
// order-independent: summing any partition of the input and merging gives
// the same result as summing the whole.
func SumTransactionsBy(txns []*model.Transaction, key func(*model.Transaction) string) map[string]GroupTotal {
	totals := make(map[string]GroupTotal)
	for _, t := range txns {
		g := totals[key(t)]
		g.Total += t.Amount
		g.Count++
		totals[key(t)] = g
	}
	return totals
}

// SumItemPurchasesBy reduces item rows into per-key gross totals using the
// two-path line valuation.
func SumItemPurchasesBy(rows []*model.ItemPurchase, key func(*model.ItemPurchase) string) map[string]GroupTotal {
	totals := make(map[string]GroupTotal)
	for _, r := range rows {
		g := totals[key(r)]
		g.Total += LineAmount(r)
		g.Count++
		totals[key(r)] = g
	}
	return totals
}

// MergeTotals combines two rollups produced over disjoint row sets.
func MergeTotals(a, b map[string]GroupTotal) map[string]GroupTotal {
	merged := make(map[string]GroupTotal, len(a)+len(b))
	for k, g := range a {
		merged[k] = g
	}
	for k, g := range b {
		m := merged[k]
		m.Total += g.Total
		m.Count += g.Count
		merged[k] = m
	}
	return merged
}

// CategoryTotal is one row of a category summary.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// CategorySummary rolls transactions up by category name, descending by
// total. Name breaks ties so the order is reproducible.
func CategorySummary(txns []*model.Transaction, categories map[string]*model.Category) []CategoryTotal {
	totals := SumTransactionsBy(txns, func(t *model.Transaction) string {
		return CategoryLabel(categories, t.CategoryID)
	})
	rows := make([]CategoryTotal, 0, len(totals))
	for name, g := range totals {
		rows = append(rows, CategoryTotal{Category: name, Total: Round2(g.Total)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// StabilityTotal is one row of a stability-type split.
type StabilityTotal struct {
	StabilityType model.StabilityType `json:"stability_type"`
	Total         float64             `json:"total"`
	Count         int                 `json:"count"`
}

// StabilitySummary rolls expense transactions up by their category's
// stability type, in the fixed/variable/occasional order.
func StabilitySummary(txns []*model.Transaction, categories map[string]*model.Category) []StabilityTotal {
	totals := SumTransactionsBy(txns, func(t *model.Transaction) string {
		return string(StabilityOf(categories, t.CategoryID))
	})
	order := []model.StabilityType{model.StabilityFixed, model.StabilityVariable, model.StabilityOccasional}
	rows := make([]StabilityTotal, 0, len(order))
	for _, st := range order {
		g := totals[string(st)]
		rows = append(rows, StabilityTotal{StabilityType: st, Total: Round2(g.Total), Count: g.Count})
	}
	return rows
}

// BudgetActualRow is one row of a budget-vs-actual comparison. The limit and
// spent values are repeated under their historical Spanish field names;
// both consumers read the same computation.
type BudgetActualRow struct {
	CategoryID  string  `json:"category_id"`
	Category    string  `json:"category"`
	Limit       float64 `json:"limit"`
	Presupuesto float64 `json:"presupuesto"`
	Spent       float64 `json:"spent"`
	Gastado     float64 `json:"gastado"`

	hasBudget bool
}

func newBudgetActualRow(categoryID, name string, limit, spent float64, hasBudget bool) BudgetActualRow {
	return BudgetActualRow{
		CategoryID:  categoryID,
		Category:    name,
		Limit:       Round2(limit),
		Presupuesto: Round2(limit),
		Spent:       Round2(spent),
		Gastado:     Round2(spent),
		hasBudget:   hasBudget,
	}
}

// BudgetVsActual joins budgeted limits and actual expense for one month via
// an outer union of category keys: a budgeted category with no spend shows
// spent=0, and spend without a budget still appears with limit=0.
func BudgetVsActual(budgets []*model.Budget, expenses []*model.Transaction, categories map[string]*model.Category) []BudgetActualRow {
	spent := SumTransactionsBy(expenses, func(t *model.Transaction) string { return t.CategoryID })

	limits := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		limits[b.CategoryID] += b.LimitAmount
	}

	keys := make(map[string]bool, len(limits)+len(spent))
	for id := range limits {
		keys[id] = true
	}
	for id := range spent {
		keys[id] = true
	}

	rows := make([]BudgetActualRow, 0, len(keys))
	for id := range keys {
		limit, budgeted := limits[id]
		rows = append(rows, newBudgetActualRow(id, CategoryLabel(categories, id), limit, spent[id].Total, budgeted))
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Spent != rows[j].Spent {
			return rows[i].Spent > rows[j].Spent
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// OverBudget filters a budget-vs-actual result down to budgeted categories
// whose spend exceeds the limit. Spend with no budget row cannot be "over"
// an undefined limit and never appears here.
func OverBudget(rows []BudgetActualRow) []BudgetActualRow {
	over := make([]BudgetActualRow, 0)
	for _, r := range rows {
		if r.hasBudget && r.Spent > r.Limit {
			over = append(over, r)
		}
	}
	return over
}
