// Package model defines the domain entities shared by the store, the report
// engine and the service layer.
package model

import "time"

// TransactionType partitions every aggregation into income and expense.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// StabilityType classifies how predictable a category's spend is.
// Occasional categories are excluded from recurring-expense projections.
type StabilityType string

const (
	StabilityFixed      StabilityType = "fixed"
	StabilityVariable   StabilityType = "variable"
	StabilityOccasional StabilityType = "occasional"
)

// Transaction is a single income or expense movement. Amount is always >= 0;
// Type decides the sign of its contribution to a balance.
type Transaction struct {
	ID                string
	UserID            string
	AccountID         string
	CategoryID        string // empty when uncategorized or the category was deleted
	Type              TransactionType
	Amount            float64
	Date              time.Time
	DiscountPercent   float64
	IsShoppingList    bool
	Recurrence        string
	RecurrenceEndDate *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Category groups transactions and carries the stability classification.
type Category struct {
	ID            string
	UserID        string
	Name          string
	Type          TransactionType
	StabilityType StabilityType
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Item is a purchasable product tracked on shopping-list transactions.
type Item struct {
	ID        string
	UserID    string
	Name      string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tax is a named tax rate. IsExempt forces an effective rate of zero
// regardless of the stored rate.
type Tax struct {
	ID       string
	UserID   string
	Name     string
	Rate     float64 // percent, e.g. 21 for 21%
	IsExempt bool
}

// ItemPurchase is a transaction-item row pre-joined with the item's name,
// its category's stability type and the tax snapshot captured at purchase
// time. LineTotalFinal is the authoritative tax-and-discount-inclusive
// amount when non-nil; nil triggers recomputation from the net price.
type ItemPurchase struct {
	TransactionID  string
	ItemID         string
	ItemName       string
	StabilityType  StabilityType
	Date           time.Time
	Quantity       float64
	UnitPriceNet   float64
	TaxRateUsed    float64
	IsExemptUsed   bool
	LineTotalFinal *float64
}

// Budget is a per-category monthly spending limit. The store enforces one
// row per (user, category, month).
type Budget struct {
	ID          string
	UserID      string
	CategoryID  string
	Month       string // "YYYY-MM"
	LimitAmount float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Goal is a savings target.
type Goal struct {
	ID            string
	UserID        string
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
