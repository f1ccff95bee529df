package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/finanzas-app/backend/internal/auth"
	"github.com/finanzas-app/backend/internal/model"
	"github.com/finanzas-app/backend/internal/store"
)

// testContextWithUser creates a context with authenticated user claims for
// testing.
func testContextWithUser(userID string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:   userID,
		Email: userID + "@test.local",
	})
}

// testReferenceTime pins every report's "now" to mid-April 2025.
var testReferenceTime = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

// newTestService wires a ReportService to a fresh mock store with a fixed
// clock.
func newTestService(t *testing.T) (*ReportService, *store.MockStore) {
	ctrl := gomock.NewController(t)
	mockStore := store.NewMockStore(ctrl)
	svc := NewReportService(mockStore)
	svc.now = func() time.Time { return testReferenceTime }
	return svc, mockStore
}

func txnOn(day time.Time, txnType model.TransactionType, categoryID string, amount float64) *model.Transaction {
	return &model.Transaction{
		UserID:     "user-123",
		Type:       txnType,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       day,
	}
}

func midMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
}

// filterStarting matches a TransactionFilter whose window starts on the
// first day of the given month.
func filterStarting(year int, month time.Month) gomock.Matcher {
	want := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return gomock.Cond(func(v any) bool {
		x, ok := v.(store.TransactionFilter)
		return ok && x.StartDate != nil && x.StartDate.Equal(want)
	})
}

// startOfMonth matches a time.Time equal to the month's first instant.
func startOfMonth(year int, month time.Month) gomock.Matcher {
	want := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return gomock.Cond(func(v any) bool {
		x, ok := v.(time.Time)
		return ok && x.Equal(want)
	})
}

var testServiceCategories = []*model.Category{
	{ID: "cat-food", UserID: "user-123", Name: "Comida", Type: model.TransactionTypeExpense, StabilityType: model.StabilityVariable},
	{ID: "cat-rent", UserID: "user-123", Name: "Alquiler", Type: model.TransactionTypeExpense, StabilityType: model.StabilityFixed},
	{ID: "cat-gifts", UserID: "user-123", Name: "Regalos", Type: model.TransactionTypeExpense, StabilityType: model.StabilityOccasional},
	{ID: "cat-salary", UserID: "user-123", Name: "Nómina", Type: model.TransactionTypeIncome, StabilityType: model.StabilityFixed},
}
