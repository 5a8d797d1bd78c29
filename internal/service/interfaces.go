// Package service defines the contracts between the categorization engine,
// its callers, and the persistence layer.
package service

import (
	"context"
	"time"

	"github.com/pennywise-cli/pennywise/internal/model"
)

// RuleStore supplies the rule snapshot the categorization engine evaluates.
// ActiveRules returns only active rules for the given owner (nil means the
// global scope), sorted ascending by priority with ties in creation order.
type RuleStore interface {
	ActiveRules(ctx context.Context, ownerID *int64) ([]model.Rule, error)
}

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	OwnerID *int64
	Limit   int
	Offset  int
}

// CategoryTotal is one row of a monthly spending summary.
type CategoryTotal struct {
	Category model.Category
	Total    float64
}

// Storage defines the persistence contract for rules and transactions.
type Storage interface {
	RuleStore

	// Rule operations.
	CreateRule(ctx context.Context, rule *model.Rule) error
	GetRule(ctx context.Context, id int64) (*model.Rule, error)
	ListRules(ctx context.Context, ownerID *int64, limit, offset int) ([]model.Rule, error)
	UpdateRule(ctx context.Context, rule *model.Rule) error
	DeleteRule(ctx context.Context, id int64) error

	// Transaction operations.
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, id string, category model.Category) error
	SaveTransactions(ctx context.Context, txns []model.Transaction) error

	// MonthlySpendingSummary sums expense amounts grouped by category for
	// the given month. Consumes stored categories; runs no categorization.
	MonthlySpendingSummary(ctx context.Context, year int, month time.Month, ownerID *int64) ([]CategoryTotal, error)

	Close() error
}
