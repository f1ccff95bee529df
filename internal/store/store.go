// Package store defines the persistence interface the service layer reads
// through, with an in-memory implementation for tests and local development
// and a Firestore implementation for production.
package store

import (
	"context"
	"time"

	"github.com/finanzas-app/backend/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// TransactionFilter narrows a transaction listing. Zero values mean
// "no filter" for that dimension.
type TransactionFilter struct {
	Type       model.TransactionType
	CategoryID string
	StartDate  *time.Time
	EndDate    *time.Time
}

// Store defines the database operations used by the service layer. Item
// purchase rows are stored denormalized: the item name, category stability
// and tax snapshot are captured at write time, so reads need no joins.
type Store interface {
	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, txnID string) error
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]*model.Transaction, error)

	// Category operations
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, categoryID string) (*model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, categoryID string) error
	ListCategories(ctx context.Context, userID string) ([]*model.Category, error)

	// Budget operations. One budget per (user, category, month).
	CreateBudget(ctx context.Context, budget *model.Budget) error
	UpdateBudget(ctx context.Context, budget *model.Budget) error
	DeleteBudget(ctx context.Context, budgetID string) error
	ListBudgets(ctx context.Context, userID, month string) ([]*model.Budget, error)

	// Item and tax operations
	CreateItem(ctx context.Context, item *model.Item) error
	ListItems(ctx context.Context, userID string) ([]*model.Item, error)
	CreateTax(ctx context.Context, tax *model.Tax) error
	ListTaxes(ctx context.Context, userID string) ([]*model.Tax, error)

	// Item purchase rows (transaction items, pre-joined at write time)
	CreateItemPurchase(ctx context.Context, userID string, purchase *model.ItemPurchase) error
	ListItemPurchases(ctx context.Context, userID string, start, end time.Time, itemIDs []string) ([]*model.ItemPurchase, error)

	// Goal operations
	CreateGoal(ctx context.Context, goal *model.Goal) error
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	DeleteGoal(ctx context.Context, goalID string) error
	ListGoals(ctx context.Context, userID string) ([]*model.Goal, error)
}
