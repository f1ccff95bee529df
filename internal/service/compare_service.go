package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finanzas-app/backend/internal/auth"
	"github.com/finanzas-app/backend/internal/model"
	"github.com/finanzas-app/backend/internal/report"
)

// ComparativeRequest names the two compared periods. A pair left fully zero
// defaults to the previous and current calendar month relative to the
// service's reference instant.
type ComparativeRequest struct {
	UserID string
	Year1  int
	Month1 int
	Year2  int
	Month2 int
}

// ComparativeMeta summarizes the two compared periods.
type ComparativeMeta struct {
	Month1      string  `json:"month1"`
	Month2      string  `json:"month2"`
	Month1Total float64 `json:"month1_total"`
	Month2Total float64 `json:"month2_total"`
}

// ComparativeCategoryRow is one category's totals across both periods.
type ComparativeCategoryRow struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Month1Total  float64 `json:"month1_total"`
	Month2Total  float64 `json:"month2_total"`
	Diff         float64 `json:"diff"`
	DiffPercent  float64 `json:"diff_percent"`
}

// ComparativeResponse is the month-to-month comparison report.
type ComparativeResponse struct {
	Meta ComparativeMeta          `json:"meta"`
	Data []ComparativeCategoryRow `json:"data"`
}

// resolvePeriods validates or defaults the two (year, month) pairs.
func (s *ReportService) resolvePeriods(req ComparativeRequest) (p1, p2 time.Time, err error) {
	defaulted := req.Year1 == 0 && req.Month1 == 0 && req.Year2 == 0 && req.Month2 == 0
	if defaulted {
		now := s.now()
		cur := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return cur.AddDate(0, -1, 0), cur, nil
	}
	if err := validateYearMonth(req.Year1, req.Month1); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := validateYearMonth(req.Year2, req.Month2); err != nil {
		return time.Time{}, time.Time{}, err
	}
	p1 = time.Date(req.Year1, time.Month(req.Month1), 1, 0, 0, 0, 0, time.UTC)
	p2 = time.Date(req.Year2, time.Month(req.Month2), 1, 0, 0, 0, 0, time.UTC)
	return p1, p2, nil
}

// GetComparativeReport compares per-category expense totals between two
// arbitrary months.
func (s *ReportService) GetComparativeReport(ctx context.Context, req ComparativeRequest) (*ComparativeResponse, error) {
	userID, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	p1, p2, err := s.resolvePeriods(req)
	if err != nil {
		return nil, err
	}

	start1, end1 := report.MonthRange(p1.Year(), p1.Month())
	start2, end2 := report.MonthRange(p2.Year(), p2.Month())

	var (
		txns1, txns2 []*model.Transaction
		categories   []*model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns1, err = s.store.ListTransactions(gctx, userID, expenseFilter(start1, end1))
		return auth.WrapStoreError("list period 1 expenses", err)
	})
	g.Go(func() error {
		var err error
		txns2, err = s.store.ListTransactions(gctx, userID, expenseFilter(start2, end2))
		return auth.WrapStoreError("list period 2 expenses", err)
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, userID)
		return auth.WrapStoreError("list categories", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	totals1, grand1 := categoryTotals(txns1)
	totals2, grand2 := categoryTotals(txns2)

	entries := report.ComparePeriods(totals1, totals2, names)
	rows := make([]ComparativeCategoryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, ComparativeCategoryRow{
			CategoryID:   e.Key,
			CategoryName: e.Name,
			Month1Total:  e.Total1,
			Month2Total:  e.Total2,
			Diff:         e.Diff,
			DiffPercent:  e.DiffPercent,
		})
	}

	return &ComparativeResponse{
		Meta: ComparativeMeta{
			Month1:      report.MonthKey(p1),
			Month2:      report.MonthKey(p2),
			Month1Total: report.Round2(grand1),
			Month2Total: report.Round2(grand2),
		},
		Data: rows,
	}, nil
}

// ComparativeItemsRequest compares item-level spend. ItemIDs is required.
type ComparativeItemsRequest struct {
	ComparativeRequest
	ItemIDs []string
}

// ComparativeItemRow is one item's gross totals across both periods.
type ComparativeItemRow struct {
	ItemID      string  `json:"item_id"`
	ItemName    string  `json:"item_name"`
	Month1Total float64 `json:"month1_total"`
	Month2Total float64 `json:"month2_total"`
	Diff        float64 `json:"diff"`
	DiffPercent float64 `json:"diff_percent"`
}

// ComparativeItemsResponse is the item-level comparison report.
type ComparativeItemsResponse struct {
	Meta ComparativeMeta      `json:"meta"`
	Data []ComparativeItemRow `json:"data"`
}

// GetComparativeItemsReport compares tax-inclusive item totals between two
// arbitrary months.
func (s *ReportService) GetComparativeItemsReport(ctx context.Context, req ComparativeItemsRequest) (*ComparativeItemsResponse, error) {
	userID, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(req.ItemIDs) == 0 {
		return nil, invalidArgument("item_ids is required")
	}
	p1, p2, err := s.resolvePeriods(req.ComparativeRequest)
	if err != nil {
		return nil, err
	}

	start1, end1 := report.MonthRange(p1.Year(), p1.Month())
	start2, end2 := report.MonthRange(p2.Year(), p2.Month())

	var rows1, rows2 []*model.ItemPurchase
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows1, err = s.store.ListItemPurchases(gctx, userID, start1, end1, req.ItemIDs)
		return auth.WrapStoreError("list period 1 item purchases", err)
	})
	g.Go(func() error {
		var err error
		rows2, err = s.store.ListItemPurchases(gctx, userID, start2, end2, req.ItemIDs)
		return auth.WrapStoreError("list period 2 item purchases", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byItem := func(p *model.ItemPurchase) string { return p.ItemID }
	totals1 := report.SumItemPurchasesBy(rows1, byItem)
	totals2 := report.SumItemPurchasesBy(rows2, byItem)

	names := make(map[string]string)
	flat1 := make(map[string]float64, len(totals1))
	flat2 := make(map[string]float64, len(totals2))
	var grand1, grand2 float64
	for k, t := range totals1 {
		flat1[k] = t.Total
		grand1 += t.Total
	}
	for k, t := range totals2 {
		flat2[k] = t.Total
		grand2 += t.Total
	}
	for _, r := range rows1 {
		names[r.ItemID] = r.ItemName
	}
	for _, r := range rows2 {
		names[r.ItemID] = r.ItemName
	}

	entries := report.ComparePeriods(flat1, flat2, names)
	data := make([]ComparativeItemRow, 0, len(entries))
	for _, e := range entries {
		data = append(data, ComparativeItemRow{
			ItemID:      e.Key,
			ItemName:    e.Name,
			Month1Total: e.Total1,
			Month2Total: e.Total2,
			Diff:        e.Diff,
			DiffPercent: e.DiffPercent,
		})
	}

	return &ComparativeItemsResponse{
		Meta: ComparativeMeta{
			Month1:      report.MonthKey(p1),
			Month2:      report.MonthKey(p2),
			Month1Total: report.Round2(grand1),
			Month2Total: report.Round2(grand2),
		},
		Data: data,
	}, nil
}

// categoryTotals flattens an expense rollup by category id and returns the
// grand total alongside.
func categoryTotals(txns []*model.Transaction) (map[string]float64, float64) {
	grouped := report.SumTransactionsBy(txns, func(t *model.Transaction) string { return t.CategoryID })
	flat := make(map[string]float64, len(grouped))
	var grand float64
	for k, g := range grouped {
		flat[k] = g.Total
		grand += g.Total
	}
	return flat, grand
}
