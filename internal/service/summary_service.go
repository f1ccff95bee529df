package service

import (
	"context"
	"time"

	"github.com/finanzas-app/backend/internal/model"
	"github.com/finanzas-app/backend/internal/report"
	"github.com/finanzas-app/backend/internal/store"
)

// CategorySummaryRequest selects a month (or a whole year when Month is 0)
// of one transaction type. Type defaults to expense.
type CategorySummaryRequest struct {
	UserID string
	Year   int
	Month  int
	Type   model.TransactionType
}

// CategorySummaryResponse lists per-category totals, largest first.
type CategorySummaryResponse struct {
	Year  int                    `json:"year"`
	Month int                    `json:"month,omitempty"`
	Data  []report.CategoryTotal `json:"data"`
}

// GetCategorySummary rolls one period's transactions up by category name.
func (s *ReportService) GetCategorySummary(ctx context.Context, req CategorySummaryRequest) (*CategorySummaryResponse, error) {
	userID, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if req.Year < 1 {
		return nil, invalidArgument("invalid year %d", req.Year)
	}

	var start, end time.Time
	if req.Month == 0 {
		start, end = report.YearRange(req.Year)
	} else {
		if err := validateYearMonth(req.Year, req.Month); err != nil {
			return nil, err
		}
		start, end = report.MonthRange(req.Year, time.Month(req.Month))
	}

	txnType := req.Type
	if txnType == "" {
		txnType = model.TransactionTypeExpense
	}

	txns, cats, err := s.fetchTransactionsAndCategories(ctx, userID, store.TransactionFilter{
		Type:      txnType,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, err
	}

	return &CategorySummaryResponse{
		Year:  req.Year,
		Month: req.Month,
		Data:  report.CategorySummary(txns, cats),
	}, nil
}

// MonthBalance is one month of an annual summary.
type MonthBalance struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// AnnualSummaryResponse covers every month of the year, zero-filled for
// months without data, plus the year's totals.
type AnnualSummaryResponse struct {
	Year         int            `json:"year"`
	Months       []MonthBalance `json:"months"`
	TotalIncome  float64        `json:"total_income"`
	TotalExpense float64        `json:"total_expense"`
	TotalBalance float64        `json:"total_balance"`
}

// GetAnnualSummary buckets one calendar year into month balances.
func (s *ReportService) GetAnnualSummary(ctx context.Context, requestedUserID string, year int) (*AnnualSummaryResponse, error) {
	userID, err := s.resolveUser(ctx, requestedUserID)
	if err != nil {
		return nil, err
	}
	if year < 1 {
		return nil, invalidArgument("invalid year %d", year)
	}

	start, end := report.YearRange(year)
	txns, cats, err := s.fetchTransactionsAndCategories(ctx, userID, store.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, err
	}

	flows := report.BucketMonthly(txns, cats, false)
	byMonth := make(map[string]report.MonthFlow, len(flows))
	for _, f := range flows {
		byMonth[f.Month] = f
	}

	resp := &AnnualSummaryResponse{Year: year, Months: make([]MonthBalance, 0, 12)}
	var totalIncome, totalExpense float64
	for m := time.January; m <= time.December; m++ {
		key := report.MonthKey(time.Date(year, m, 1, 0, 0, 0, 0, time.UTC))
		f := byMonth[key]
		totalIncome += f.Income
		totalExpense += f.Expense
		resp.Months = append(resp.Months, MonthBalance{
			Month:   key,
			Income:  report.Round2(f.Income),
			Expense: report.Round2(f.Expense),
			Balance: report.Round2(f.Balance()),
		})
	}
	resp.TotalIncome = report.Round2(totalIncome)
	resp.TotalExpense = report.Round2(totalExpense)
	resp.TotalBalance = report.Round2(totalIncome - totalExpense)
	return resp, nil
}

// StabilitySummaryRequest selects the expense window to split by stability
// type. Month 0 covers the whole year.
type StabilitySummaryRequest struct {
	UserID string
	Year   int
	Month  int
}

// StabilitySummaryResponse splits expense spend by stability type.
type StabilitySummaryResponse struct {
	Year  int                     `json:"year"`
	Month int                     `json:"month,omitempty"`
	Data  []report.StabilityTotal `json:"data"`
}

// GetStabilitySummary reports how predictable the period's spend was.
func (s *ReportService) GetStabilitySummary(ctx context.Context, req StabilitySummaryRequest) (*StabilitySummaryResponse, error) {
	userID, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if req.Year < 1 {
		return nil, invalidArgument("invalid year %d", req.Year)
	}

	var start, end time.Time
	if req.Month == 0 {
		start, end = report.YearRange(req.Year)
	} else {
		if err := validateYearMonth(req.Year, req.Month); err != nil {
			return nil, err
		}
		start, end = report.MonthRange(req.Year, time.Month(req.Month))
	}

	txns, cats, err := s.fetchTransactionsAndCategories(ctx, userID, expenseFilter(start, end))
	if err != nil {
		return nil, err
	}

	return &StabilitySummaryResponse{
		Year:  req.Year,
		Month: req.Month,
		Data:  report.StabilitySummary(txns, cats),
	}, nil
}
