package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/finanzas-app/backend/internal/model"
)

// Firestore collection names.
const (
	colTransactions = "transactions"
	colCategories   = "categories"
	colBudgets      = "budgets"
	colItems        = "items"
	colTaxes        = "taxes"
	colPurchases    = "transactionItems"
	colGoals        = "goals"
)

// FirestoreStore implements the Store interface using Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	_, err := s.client.Collection(colTransactions).Doc(txn.ID).Set(ctx, txn)
	return err
}

func (s *FirestoreStore) GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error) {
	doc, err := s.client.Collection(colTransactions).Doc(txnID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("transaction not found: %w", err)
	}
	var txn model.Transaction
	if err := doc.DataTo(&txn); err != nil {
		return nil, fmt.Errorf("failed to parse transaction: %w", err)
	}
	return &txn, nil
}

func (s *FirestoreStore) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	_, err := s.client.Collection(colTransactions).Doc(txn.ID).Set(ctx, txn)
	return err
}

func (s *FirestoreStore) DeleteTransaction(ctx context.Context, txnID string) error {
	_, err := s.client.Collection(colTransactions).Doc(txnID).Delete(ctx)
	return err
}

func (s *FirestoreStore) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]*model.Transaction, error) {
	query := s.client.Collection(colTransactions).Query.Where("UserID", "==", userID)
	if filter.Type != "" {
		query = query.Where("Type", "==", string(filter.Type))
	}
	if filter.CategoryID != "" {
		query = query.Where("CategoryID", "==", filter.CategoryID)
	}
	if filter.StartDate != nil {
		query = query.Where("Date", ">=", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("Date", "<=", *filter.EndDate)
	}
	query = query.OrderBy("Date", firestore.Asc)

	var result []*model.Transaction
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		var txn model.Transaction
		if err := doc.DataTo(&txn); err != nil {
			return nil, fmt.Errorf("failed to parse transaction: %w", err)
		}
		result = append(result, &txn)
	}
	return result, nil
}

func (s *FirestoreStore) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	_, err := s.client.Collection(colCategories).Doc(category.ID).Set(ctx, category)
	return err
}

func (s *FirestoreStore) GetCategory(ctx context.Context, categoryID string) (*model.Category, error) {
	doc, err := s.client.Collection(colCategories).Doc(categoryID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("category not found: %w", err)
	}
	var category model.Category
	if err := doc.DataTo(&category); err != nil {
		return nil, fmt.Errorf("failed to parse category: %w", err)
	}
	return &category, nil
}

func (s *FirestoreStore) UpdateCategory(ctx context.Context, category *model.Category) error {
	_, err := s.client.Collection(colCategories).Doc(category.ID).Set(ctx, category)
	return err
}

func (s *FirestoreStore) DeleteCategory(ctx context.Context, categoryID string) error {
	_, err := s.client.Collection(colCategories).Doc(categoryID).Delete(ctx)
	return err
}

func (s *FirestoreStore) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	query := s.client.Collection(colCategories).Query.
		Where("UserID", "==", userID).
		OrderBy("Name", firestore.Asc)

	var result []*model.Category
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		var category model.Category
		if err := doc.DataTo(&category); err != nil {
			return nil, fmt.Errorf("failed to parse category: %w", err)
		}
		result = append(result, &category)
	}
	return result, nil
}

func (s *FirestoreStore) CreateBudget(ctx context.Context, budget *model.Budget) error {
	// Uniqueness per (user, category, month).
	existing := s.client.Collection(colBudgets).Query.
		Where("UserID", "==", budget.UserID).
		Where("CategoryID", "==", budget.CategoryID).
		Where("Month", "==", budget.Month).
		Limit(1)
	iter := existing.Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err == nil {
		return fmt.Errorf("budget already exists for category %s in %s", budget.CategoryID, budget.Month)
	} else if err != iterator.Done {
		return fmt.Errorf("failed to check budget uniqueness: %w", err)
	}

	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	_, err := s.client.Collection(colBudgets).Doc(budget.ID).Set(ctx, budget)
	return err
}

func (s *FirestoreStore) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	_, err := s.client.Collection(colBudgets).Doc(budget.ID).Set(ctx, budget)
	return err
}

func (s *FirestoreStore) DeleteBudget(ctx context.Context, budgetID string) error {
	_, err := s.client.Collection(colBudgets).Doc(budgetID).Delete(ctx)
	return err
}

func (s *FirestoreStore) ListBudgets(ctx context.Context, userID, month string) ([]*model.Budget, error) {
	query := s.client.Collection(colBudgets).Query.Where("UserID", "==", userID)
	if month != "" {
		query = query.Where("Month", "==", month)
	}

	var result []*model.Budget
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list budgets: %w", err)
		}
		var budget model.Budget
		if err := doc.DataTo(&budget); err != nil {
			return nil, fmt.Errorf("failed to parse budget: %w", err)
		}
		result = append(result, &budget)
	}
	return result, nil
}

func (s *FirestoreStore) CreateItem(ctx context.Context, item *model.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	_, err := s.client.Collection(colItems).Doc(item.ID).Set(ctx, item)
	return err
}

func (s *FirestoreStore) ListItems(ctx context.Context, userID string) ([]*model.Item, error) {
	query := s.client.Collection(colItems).Query.
		Where("UserID", "==", userID).
		OrderBy("Name", firestore.Asc)

	var result []*model.Item
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}
		var item model.Item
		if err := doc.DataTo(&item); err != nil {
			return nil, fmt.Errorf("failed to parse item: %w", err)
		}
		result = append(result, &item)
	}
	return result, nil
}

func (s *FirestoreStore) CreateTax(ctx context.Context, tax *model.Tax) error {
	if tax.ID == "" {
		tax.ID = uuid.NewString()
	}
	_, err := s.client.Collection(colTaxes).Doc(tax.ID).Set(ctx, tax)
	return err
}

func (s *FirestoreStore) ListTaxes(ctx context.Context, userID string) ([]*model.Tax, error) {
	query := s.client.Collection(colTaxes).Query.Where("UserID", "==", userID)

	var result []*model.Tax
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list taxes: %w", err)
		}
		var tax model.Tax
		if err := doc.DataTo(&tax); err != nil {
			return nil, fmt.Errorf("failed to parse tax: %w", err)
		}
		result = append(result, &tax)
	}
	return result, nil
}

// purchaseDoc is the stored shape of an item purchase row; the user id is
// denormalized onto the row for querying.
type purchaseDoc struct {
	UserID string
	model.ItemPurchase
}

func (s *FirestoreStore) CreateItemPurchase(ctx context.Context, userID string, purchase *model.ItemPurchase) error {
	_, _, err := s.client.Collection(colPurchases).Add(ctx, &purchaseDoc{UserID: userID, ItemPurchase: *purchase})
	return err
}

func (s *FirestoreStore) ListItemPurchases(ctx context.Context, userID string, start, end time.Time, itemIDs []string) ([]*model.ItemPurchase, error) {
	query := s.client.Collection(colPurchases).Query.
		Where("UserID", "==", userID).
		Where("Date", ">=", start).
		Where("Date", "<=", end).
		OrderBy("Date", firestore.Asc)

	// Item filtering happens client-side: Firestore "in" caps at 30 values
	// and the item lists here regularly exceed that.
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	var result []*model.ItemPurchase
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list item purchases: %w", err)
		}
		var row purchaseDoc
		if err := doc.DataTo(&row); err != nil {
			return nil, fmt.Errorf("failed to parse item purchase: %w", err)
		}
		if len(wanted) > 0 && !wanted[row.ItemID] {
			continue
		}
		p := row.ItemPurchase
		result = append(result, &p)
	}
	return result, nil
}

func (s *FirestoreStore) CreateGoal(ctx context.Context, goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	_, err := s.client.Collection(colGoals).Doc(goal.ID).Set(ctx, goal)
	return err
}

func (s *FirestoreStore) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	_, err := s.client.Collection(colGoals).Doc(goal.ID).Set(ctx, goal)
	return err
}

func (s *FirestoreStore) DeleteGoal(ctx context.Context, goalID string) error {
	_, err := s.client.Collection(colGoals).Doc(goalID).Delete(ctx)
	return err
}

func (s *FirestoreStore) ListGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	query := s.client.Collection(colGoals).Query.
		Where("UserID", "==", userID).
		OrderBy("Name", firestore.Asc)

	var result []*model.Goal
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list goals: %w", err)
		}
		var goal model.Goal
		if err := doc.DataTo(&goal); err != nil {
			return nil, fmt.Errorf("failed to parse goal: %w", err)
		}
		result = append(result, &goal)
	}
	return result, nil
}
