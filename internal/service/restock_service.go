package service

import (
	"context"
	"time"

	"github.com/finanzas-app/backend/internal/auth"
	"github.com/finanzas-app/backend/internal/report"
)

// defaultRestockWindow is the trailing purchase history considered, in
// months.
const defaultRestockWindow = 6

// RestockRequest selects the user and the trailing window size.
type RestockRequest struct {
	UserID string
	Months int
}

// RestockMeta documents the forecast's fixed policies alongside the data.
type RestockMeta struct {
	MonthsConsidered    int    `json:"months_considered"`
	NextMonth           string `json:"next_month"`
	ExcludesOccasional  bool   `json:"excludes_occasional"`
	CostIncludesItemTax bool   `json:"cost_includes_item_tax"`
}

// RestockResponse is the items-to-restock forecast.
type RestockResponse struct {
	Meta RestockMeta              `json:"meta"`
	Data []report.RestockForecast `json:"data"`
}

// GetRestockForecast predicts which items are due for repurchase next
// month from their historical purchase cadence.
func (s *ReportService) GetRestockForecast(ctx context.Context, req RestockRequest) (*RestockResponse, error) {
	userID, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	months := req.Months
	if months == 0 {
		months = defaultRestockWindow
	}
	if months < 2 {
		return nil, invalidArgument("months must be at least 2")
	}

	now := s.now()
	// Window covers the trailing N calendar months including the current
	// one, from the oldest month's first day through the current month's
	// last day.
	window := report.TrailingMonths(months, now)
	oldest, _ := time.Parse("2006-01", window[0])
	start, _ := report.MonthRange(oldest.Year(), oldest.Month())
	_, end := report.MonthRange(now.Year(), now.Month())

	purchases, err := s.store.ListItemPurchases(ctx, userID, start, end, nil)
	if err != nil {
		return nil, auth.WrapStoreError("list item purchases", err)
	}

	nextYear, nextMonth := report.AddMonths(now.Year(), int(now.Month()), 1)

	return &RestockResponse{
		Meta: RestockMeta{
			MonthsConsidered:    months,
			NextMonth:           report.MonthKey(monthStart(nextYear, nextMonth)),
			ExcludesOccasional:  true,
			CostIncludesItemTax: true,
		},
		Data: report.ForecastRestock(purchases, now),
	}, nil
}
