package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finanzas-app/backend/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used in tests and for
// local development.
type MemoryStore struct {
	mu sync.RWMutex

	transactions map[string]*model.Transaction
	categories   map[string]*model.Category
	budgets      map[string]*model.Budget
	items        map[string]*model.Item
	taxes        map[string]*model.Tax
	goals        map[string]*model.Goal
	purchases    map[string][]*model.ItemPurchase // keyed by user id
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*model.Transaction),
		categories:   make(map[string]*model.Category),
		budgets:      make(map[string]*model.Budget),
		items:        make(map[string]*model.Item),
		taxes:        make(map[string]*model.Tax),
		goals:        make(map[string]*model.Goal),
		purchases:    make(map[string][]*model.ItemPurchase),
	}
}

func (s *MemoryStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	s.transactions[txn.ID] = txn
	return nil
}

func (s *MemoryStore) GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[txnID]
	if !ok {
		return nil, fmt.Errorf("transaction not found: %s", txnID)
	}
	return txn, nil
}

func (s *MemoryStore) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[txn.ID]; !ok {
		return fmt.Errorf("transaction not found: %s", txn.ID)
	}
	s.transactions[txn.ID] = txn
	return nil
}

func (s *MemoryStore) DeleteTransaction(ctx context.Context, txnID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[txnID]; !ok {
		return fmt.Errorf("transaction not found: %s", txnID)
	}
	delete(s.transactions, txnID)
	return nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Transaction
	for _, txn := range s.transactions {
		if txn.UserID != userID {
			continue
		}
		if filter.Type != "" && txn.Type != filter.Type {
			continue
		}
		if filter.CategoryID != "" && txn.CategoryID != filter.CategoryID {
			continue
		}
		if filter.StartDate != nil && txn.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && txn.Date.After(*filter.EndDate) {
			continue
		}
		result = append(result, txn)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) CreateCategory(ctx context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	s.categories[category.ID] = category
	return nil
}

func (s *MemoryStore) GetCategory(ctx context.Context, categoryID string) (*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[categoryID]
	if !ok {
		return nil, fmt.Errorf("category not found: %s", categoryID)
	}
	return category, nil
}

func (s *MemoryStore) UpdateCategory(ctx context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category.ID]; !ok {
		return fmt.Errorf("category not found: %s", category.ID)
	}
	s.categories[category.ID] = category
	return nil
}

func (s *MemoryStore) DeleteCategory(ctx context.Context, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[categoryID]; !ok {
		return fmt.Errorf("category not found: %s", categoryID)
	}
	delete(s.categories, categoryID)
	return nil
}

func (s *MemoryStore) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *MemoryStore) CreateBudget(ctx context.Context, budget *model.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.budgets {
		if b.UserID == budget.UserID && b.CategoryID == budget.CategoryID && b.Month == budget.Month {
			return fmt.Errorf("budget already exists for category %s in %s", budget.CategoryID, budget.Month)
		}
	}
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	s.budgets[budget.ID] = budget
	return nil
}

func (s *MemoryStore) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets[budget.ID]; !ok {
		return fmt.Errorf("budget not found: %s", budget.ID)
	}
	s.budgets[budget.ID] = budget
	return nil
}

func (s *MemoryStore) DeleteBudget(ctx context.Context, budgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets[budgetID]; !ok {
		return fmt.Errorf("budget not found: %s", budgetID)
	}
	delete(s.budgets, budgetID)
	return nil
}

func (s *MemoryStore) ListBudgets(ctx context.Context, userID, month string) ([]*model.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Budget
	for _, b := range s.budgets {
		if b.UserID != userID {
			continue
		}
		if month != "" && b.Month != month {
			continue
		}
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Month != result[j].Month {
			return result[i].Month < result[j].Month
		}
		return result[i].CategoryID < result[j].CategoryID
	})
	return result, nil
}

func (s *MemoryStore) CreateItem(ctx context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	s.items[item.ID] = item
	return nil
}

func (s *MemoryStore) ListItems(ctx context.Context, userID string) ([]*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Item
	for _, it := range s.items {
		if it.UserID == userID {
			result = append(result, it)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *MemoryStore) CreateTax(ctx context.Context, tax *model.Tax) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tax.ID == "" {
		tax.ID = uuid.New().String()
	}
	s.taxes[tax.ID] = tax
	return nil
}

func (s *MemoryStore) ListTaxes(ctx context.Context, userID string) ([]*model.Tax, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Tax
	for _, tx := range s.taxes {
		if tx.UserID == userID {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *MemoryStore) CreateItemPurchase(ctx context.Context, userID string, purchase *model.ItemPurchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purchases[userID] = append(s.purchases[userID], purchase)
	return nil
}

func (s *MemoryStore) ListItemPurchases(ctx context.Context, userID string, start, end time.Time, itemIDs []string) ([]*model.ItemPurchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	var result []*model.ItemPurchase
	for _, p := range s.purchases[userID] {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		if len(wanted) > 0 && !wanted[p.ItemID] {
			continue
		}
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ItemID < result[j].ItemID
	})
	return result, nil
}

func (s *MemoryStore) CreateGoal(ctx context.Context, goal *model.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	s.goals[goal.ID] = goal
	return nil
}

func (s *MemoryStore) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[goal.ID]; !ok {
		return fmt.Errorf("goal not found: %s", goal.ID)
	}
	s.goals[goal.ID] = goal
	return nil
}

func (s *MemoryStore) DeleteGoal(ctx context.Context, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[goalID]; !ok {
		return fmt.Errorf("goal not found: %s", goalID)
	}
	delete(s.goals, goalID)
	return nil
}

func (s *MemoryStore) ListGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
