package report

import (
	"sort"
	"time"

	"github.com/finanzas-app/backend/internal/model"
)

// ForwardMonths is how far every projection extends. Each projected month
// carries the flat historical average; no trend extrapolation is applied,
// which is a deliberate simplicity choice.
const ForwardMonths = 6

// MonthFlow is one historical month bucket.
type MonthFlow struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Balance is the month's saving.
func (f MonthFlow) Balance() float64 {
	return f.Income - f.Expense
}

// BucketMonthly groups transactions into month buckets, summing income and
// expense separately, oldest month first. With excludeOccasional set,
// transactions in occasional categories are dropped before bucketing so
// one-off purchases don't skew a recurring forecast.
func BucketMonthly(txns []*model.Transaction, categories map[string]*model.Category, excludeOccasional bool) []MonthFlow {
	buckets := make(map[string]*MonthFlow)
	for _, t := range txns {
		if excludeOccasional && StabilityOf(categories, t.CategoryID) == model.StabilityOccasional {
			continue
		}
		key := MonthKey(t.Date)
		b, ok := buckets[key]
		if !ok {
			b = &MonthFlow{Month: key}
			buckets[key] = b
		}
		if t.Type == model.TransactionTypeIncome {
			b.Income += t.Amount
		} else {
			b.Expense += t.Amount
		}
	}

	flows := make([]MonthFlow, 0, len(buckets))
	for _, b := range buckets {
		flows = append(flows, *b)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].Month < flows[j].Month })
	return flows
}

// Averages holds per-month historical averages over the distinct months
// that actually have data.
type Averages struct {
	Income  float64 `json:"avg_income"`
	Expense float64 `json:"avg_expense"`
	Saving  float64 `json:"avg_saving"`
	Months  int     `json:"months_with_data"`
}

// HistoricalAverages averages the month buckets. Zero months of data yields
// zero averages, never a division by zero.
func HistoricalAverages(flows []MonthFlow) Averages {
	a := Averages{Months: len(flows)}
	if len(flows) == 0 {
		return a
	}
	for _, f := range flows {
		a.Income += f.Income
		a.Expense += f.Expense
	}
	n := float64(len(flows))
	a.Income /= n
	a.Expense /= n
	a.Saving = a.Income - a.Expense
	return a
}

// ProjectedMonth is one forward month of a projection.
type ProjectedMonth struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Saving  float64 `json:"saving"`
}

// LastObservedMonth returns the newest bucket's month, falling back to the
// reference instant's month when no data exists.
func LastObservedMonth(flows []MonthFlow, ref time.Time) string {
	if len(flows) == 0 {
		return MonthKey(ref)
	}
	return flows[len(flows)-1].Month
}

// ProjectForward generates n months after the given "YYYY-MM" key, each
// carrying the supplied monthly income and expense.
func ProjectForward(afterMonth string, n int, income, expense float64) []ProjectedMonth {
	start, err := time.Parse("2006-01", afterMonth)
	if err != nil {
		start = time.Time{}
	}
	months := make([]ProjectedMonth, 0, n)
	for i := 1; i <= n; i++ {
		months = append(months, ProjectedMonth{
			Month:   MonthKey(start.AddDate(0, i, 0)),
			Income:  Round2(income),
			Expense: Round2(expense),
			Saving:  Round2(income - expense),
		})
	}
	return months
}

// AverageExpenseByStability averages monthly expense per stability type,
// using the same distinct-months-with-data denominator as
// HistoricalAverages so the splits sum back to the overall average.
func AverageExpenseByStability(txns []*model.Transaction, categories map[string]*model.Category) map[model.StabilityType]float64 {
	months := make(map[string]bool)
	sums := make(map[model.StabilityType]float64)
	for _, t := range txns {
		months[MonthKey(t.Date)] = true
		if t.Type == model.TransactionTypeExpense {
			sums[StabilityOf(categories, t.CategoryID)] += t.Amount
		}
	}
	if len(months) == 0 {
		return map[model.StabilityType]float64{}
	}
	n := float64(len(months))
	avgs := make(map[model.StabilityType]float64, len(sums))
	for st, sum := range sums {
		avgs[st] = sum / n
	}
	return avgs
}

// StabilityReduction is a percentage cut applied to the historical average
// spend of one stability type.
type StabilityReduction struct {
	StabilityType model.StabilityType
	Percent       float64
}

// ScenarioAdjustment shifts a projection: an absolute monthly income delta
// and an optional stability-scoped expense reduction.
type ScenarioAdjustment struct {
	IncomeDelta      float64
	ExpenseReduction *StabilityReduction
}

// ApplyScenario derives adjusted averages from the current ones. The
// expense reduction is a percentage of the average spend in the named
// stability type specifically, not of total expense.
func ApplyScenario(current Averages, byStability map[model.StabilityType]float64, adj ScenarioAdjustment) Averages {
	adjusted := current
	adjusted.Income += adj.IncomeDelta
	if r := adj.ExpenseReduction; r != nil {
		adjusted.Expense -= byStability[r.StabilityType] * r.Percent / 100
	}
	adjusted.Saving = adjusted.Income - adjusted.Expense
	return adjusted
}

// ScenarioFactor is a named preset multiplying the projected averages.
type ScenarioFactor struct {
	Name          string
	IncomeFactor  float64
	ExpenseFactor float64
}

// ScenarioFactors returns the three presets applied identically across all
// forward months.
func ScenarioFactors() []ScenarioFactor {
	return []ScenarioFactor{
		{Name: "conservative", IncomeFactor: 0.95, ExpenseFactor: 1.05},
		{Name: "neutral", IncomeFactor: 1.0, ExpenseFactor: 1.0},
		{Name: "optimistic", IncomeFactor: 1.05, ExpenseFactor: 0.95},
	}
}
