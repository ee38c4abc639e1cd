package storage

import (
	"context"

	"github.com/chris/expense-ledger/pkg/models"
)

// ExpenseReader defines the interface for reading committed expenses.
type ExpenseReader interface {
	// GetExpense retrieves an expense by its ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListTransactionLog retrieves every log entry of a group or friend pair.
	ListTransactionLog(ctx context.Context, contextKey string) ([]models.TransactionLogEntry, error)
}
