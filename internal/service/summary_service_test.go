package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/finanzas-app/backend/internal/model"
	"github.com/finanzas-app/backend/internal/store"
)

func TestGetCategorySummary(t *testing.T) {
	userID := "user-123"

	t.Run("single month, largest category first", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		ctx := testContextWithUser(userID)

		txns := []*model.Transaction{
			txnOn(midMonth(2025, time.April), model.TransactionTypeExpense, "cat-food", 100),
			txnOn(midMonth(2025, time.April), model.TransactionTypeExpense, "cat-food", 50),
			txnOn(midMonth(2025, time.April), model.TransactionTypeExpense, "cat-rent", 700),
			txnOn(midMonth(2025, time.April), model.TransactionTypeExpense, "", 25),
		}

		mockStore.EXPECT().
			ListTransactions(gomock.Any(), userID, filterStarting(2025, time.April)).
			Return(txns, nil)
		mockStore.EXPECT().ListCategories(gomock.Any(), userID).Return(testServiceCategories, nil)

		resp, err := svc.GetCategorySummary(ctx, CategorySummaryRequest{UserID: userID, Year: 2025, Month: 4})
		require.NoError(t, err)

		assert.Equal(t, 2025, resp.Year)
		assert.Equal(t, 4, resp.Month)
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "Alquiler", resp.Data[0].Category)
		assert.Equal(t, 700.0, resp.Data[0].Total)
		assert.Equal(t, "Comida", resp.Data[1].Category)
		assert.Equal(t, 150.0, resp.Data[1].Total)
		assert.Equal(t, "Sin categoría", resp.Data[2].Category)
		assert.Equal(t, 25.0, resp.Data[2].Total)
	})

	t.Run("month zero covers the whole year and defaults to expense", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		ctx := testContextWithUser(userID)

		mockStore.EXPECT().
			ListTransactions(gomock.Any(), userID, gomock.Cond(func(v any) bool {
				f, ok := v.(store.TransactionFilter)
				return ok && f.Type == model.TransactionTypeExpense &&
					f.StartDate != nil && f.StartDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) &&
					f.EndDate != nil && f.EndDate.Year() == 2025 && f.EndDate.Month() == time.December
			})).
			Return(nil, nil)
		mockStore.EXPECT().ListCategories(gomock.Any(), userID).Return(nil, nil)

		resp, err := svc.GetCategorySummary(ctx, CategorySummaryRequest{UserID: userID, Year: 2025})
		require.NoError(t, err)
		assert.Empty(t, resp.Data)
	})

	t.Run("income summary passes the requested type through", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		ctx := testContextWithUser(userID)

		mockStore.EXPECT().
			ListTransactions(gomock.Any(), userID, gomock.Cond(func(v any) bool {
				f, ok := v.(store.TransactionFilter)
				return ok && f.Type == model.TransactionTypeIncome
			})).
			Return([]*model.Transaction{
				txnOn(midMonth(2025, time.April), model.TransactionTypeIncome, "cat-salary", 1000),
			}, nil)
		mockStore.EXPECT().ListCategories(gomock.Any(), userID).Return(testServiceCategories, nil)

		resp, err := svc.GetCategorySummary(ctx, CategorySummaryRequest{
			UserID: userID, Year: 2025, Month: 4, Type: model.TransactionTypeIncome,
		})
		require.NoError(t, err)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Nómina", resp.Data[0].Category)
	})

	t.Run("invalid month", func(t *testing.T) {
		svc, _ := newTestService(t)
		ctx := testContextWithUser(userID)

		_, err := svc.GetCategorySummary(ctx, CategorySummaryRequest{UserID: userID, Year: 2025, Month: 13})
		require.Error(t, err)
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("store failure surfaces as internal", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		ctx := testContextWithUser(userID)

		mockStore.EXPECT().
			ListTransactions(gomock.Any(), userID, gomock.Any()).
			Return(nil, errors.New("firestore unavailable"))
		mockStore.EXPECT().ListCategories(gomock.Any(), userID).Return(nil, nil).AnyTimes()

		_, err := svc.GetCategorySummary(ctx, CategorySummaryRequest{UserID: userID, Year: 2025, Month: 4})
		require.Error(t, err)
		assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))
	})
}

func TestGetAnnualSummary(t *testing.T) {
	userID := "user-123"

	t.Run("zero-fills every month of the year", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		ctx := testContextWithUser(userID)

		mockStore.EXPECT().
			ListTransactions(gomock.Any(), userID, filterStarting(2025, time.January)).
			Return(projectionFixture(), nil)
		mockStore.EXPECT().ListCategories(gomock.Any(), userID).Return(testServiceCategories, nil)

		resp, err := svc.GetAnnualSummary(ctx, userID, 2025)
		require.NoError(t, err)

		require.Len(t, resp.Months, 12)
		assert.Equal(t, "2025-01", resp.Months[0].Month)
		assert.Equal(t, 1000.0, resp.Months[0].Income)
		assert.Equal(t, 600.0, resp.Months[0].Expense)
		assert.Equal(t, 400.0, resp.Months[0].Balance)

		assert.Equal(t, "2025-02", resp.Months[1].Month)
		assert.Equal(t, 200.0, resp.Months[1].Balance)

		// March onward has no activity.
		for _, m := range resp.Months[2:] {
			assert.Zero(t, m.Income)
			assert.Zero(t, m.Expense)
		}
		assert.Equal(t, "2025-12", resp.Months[11].Month)

		assert.Equal(t, 2000.0, resp.TotalIncome)
		assert.Equal(t, 1400.0, resp.TotalExpense)
		assert.Equal(t, 600.0, resp.TotalBalance)
	})

	t.Run("invalid year", func(t *testing.T) {
		svc, _ := newTestService(t)
		ctx := testContextWithUser(userID)

		_, err := svc.GetAnnualSummary(ctx, userID, 0)
		require.Error(t, err)
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})
}

func TestGetStabilitySummary(t *testing.T) {
	userID := "user-123"

	t.Run("splits spend by stability with zero rows kept", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		ctx := testContextWithUser(userID)

		txns := []*model.Transaction{
			txnOn(midMonth(2025, time.April), model.TransactionTypeExpense, "cat-rent", 700),
			txnOn(midMonth(2025, time.April), model.TransactionTypeExpense, "cat-food", 150),
			txnOn(midMonth(2025, time.April), model.TransactionTypeExpense, "", 25),
		}

		mockStore.EXPECT().
			ListTransactions(gomock.Any(), userID, filterStarting(2025, time.April)).
			Return(txns, nil)
		mockStore.EXPECT().ListCategories(gomock.Any(), userID).Return(testServiceCategories, nil)

		resp, err := svc.GetStabilitySummary(ctx, StabilitySummaryRequest{UserID: userID, Year: 2025, Month: 4})
		require.NoError(t, err)

		require.Len(t, resp.Data, 3)
		assert.Equal(t, model.StabilityFixed, resp.Data[0].StabilityType)
		assert.Equal(t, 700.0, resp.Data[0].Total)
		assert.Equal(t, 1, resp.Data[0].Count)

		// Uncategorized spend lands in the variable bucket.
		assert.Equal(t, model.StabilityVariable, resp.Data[1].StabilityType)
		assert.Equal(t, 175.0, resp.Data[1].Total)
		assert.Equal(t, 2, resp.Data[1].Count)

		assert.Equal(t, model.StabilityOccasional, resp.Data[2].StabilityType)
		assert.Zero(t, resp.Data[2].Total)
	})

	t.Run("unauthenticated context is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.GetStabilitySummary(context.Background(), StabilitySummaryRequest{UserID: userID, Year: 2025})
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})
}
