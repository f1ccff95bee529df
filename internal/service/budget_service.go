package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/finanzas-app/backend/internal/auth"
	"github.com/finanzas-app/backend/internal/model"
	"github.com/finanzas-app/backend/internal/report"
)

// BudgetVsActualResponse compares budgeted limits against actual spend for
// one month.
type BudgetVsActualResponse struct {
	Month string                   `json:"month"`
	Data  []report.BudgetActualRow `json:"data"`
}

// GetBudgetVsActual joins the month's budgets and its expense rollup.
func (s *ReportService) GetBudgetVsActual(ctx context.Context, requestedUserID, month string) (*BudgetVsActualResponse, error) {
	userID, err := s.resolveUser(ctx, requestedUserID)
	if err != nil {
		return nil, err
	}
	rows, err := s.budgetActualRows(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	return &BudgetVsActualResponse{Month: month, Data: rows}, nil
}

// GetOverBudget reports the month's budgeted categories whose spend exceeds
// the limit. Spend in categories with no budget row never appears here.
func (s *ReportService) GetOverBudget(ctx context.Context, requestedUserID, month string) (*BudgetVsActualResponse, error) {
	userID, err := s.resolveUser(ctx, requestedUserID)
	if err != nil {
		return nil, err
	}
	rows, err := s.budgetActualRows(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	return &BudgetVsActualResponse{Month: month, Data: report.OverBudget(rows)}, nil
}

// budgetActualRows fans out the three reads a budget comparison needs and
// reduces them. Both budget reports share this computation; the two
// historical response shapes are aliases over it.
func (s *ReportService) budgetActualRows(ctx context.Context, userID, month string) ([]report.BudgetActualRow, error) {
	year, m, err := parseMonthKey(month)
	if err != nil {
		return nil, err
	}
	start, end := report.MonthRange(year, m)

	var (
		budgets    []*model.Budget
		expenses   []*model.Transaction
		categories []*model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx, userID, month)
		return auth.WrapStoreError("list budgets", err)
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListTransactions(gctx, userID, expenseFilter(start, end))
		return auth.WrapStoreError("list expenses", err)
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, userID)
		return auth.WrapStoreError("list categories", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report.BudgetVsActual(budgets, expenses, report.CategoryIndex(categories)), nil
}
