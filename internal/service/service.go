// Package service exposes the report operations. Each method authenticates
// the caller, fans out the reads it needs against the store, runs the report
// engine over the fetched rows and returns a JSON-shaped result. Reports are
// recomputed from source rows on every call; nothing is cached between
// requests.
package service

import (
	"context"
	"fmt"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/finanzas-app/backend/internal/auth"
	"github.com/finanzas-app/backend/internal/model"
	"github.com/finanzas-app/backend/internal/report"
	"github.com/finanzas-app/backend/internal/store"
)

// ReportService computes analytical reports over the row store.
type ReportService struct {
	store store.Store

	// now supplies the reference instant for every time-bucketing decision,
	// so month rollovers are deterministic under test.
	now func() time.Time
}

// NewReportService creates a report service reading through the given store.
func NewReportService(st store.Store) *ReportService {
	return &ReportService{
		store: st,
		now:   time.Now,
	}
}

// resolveUser authenticates the caller and resolves the effective user id.
func (s *ReportService) resolveUser(ctx context.Context, requestedUserID string) (string, error) {
	claims, err := auth.RequireUserAccess(ctx, requestedUserID)
	if err != nil {
		return "", err
	}
	if requestedUserID != "" {
		return requestedUserID, nil
	}
	return claims.UID, nil
}

// invalidArgument builds the validation error shared by every report.
func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// parseMonthKey validates a "YYYY-MM" parameter.
func parseMonthKey(key string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return 0, 0, invalidArgument("invalid month %q (expected YYYY-MM)", key)
	}
	return t.Year(), t.Month(), nil
}

// validateYearMonth checks an explicit (year, month) pair.
func validateYearMonth(year, month int) error {
	if year < 1 {
		return invalidArgument("invalid year %d", year)
	}
	if month < 1 || month > 12 {
		return invalidArgument("invalid month %d (expected 1-12)", month)
	}
	return nil
}

// fetchTransactionsAndCategories issues the two independent reads most
// reports need. The reads are mutually read-only and order-independent, so
// they run concurrently; aggregation starts only after both complete.
func (s *ReportService) fetchTransactionsAndCategories(ctx context.Context, userID string, filter store.TransactionFilter) ([]*model.Transaction, map[string]*model.Category, error) {
	var (
		txns []*model.Transaction
		cats []*model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, err = s.store.ListTransactions(gctx, userID, filter)
		return auth.WrapStoreError("list transactions", err)
	})
	g.Go(func() error {
		var err error
		cats, err = s.store.ListCategories(gctx, userID)
		return auth.WrapStoreError("list categories", err)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return txns, report.CategoryIndex(cats), nil
}

// monthStart is the first instant of a (year, 1-based month) pair.
func monthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// expenseFilter restricts a listing to expenses in [start, end].
func expenseFilter(start, end time.Time) store.TransactionFilter {
	return store.TransactionFilter{
		Type:      model.TransactionTypeExpense,
		StartDate: &start,
		EndDate:   &end,
	}
}
