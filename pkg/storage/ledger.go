package storage

import (
	"context"

	"github.com/chris/expense-ledger/pkg/models"
)

// LedgerWriter defines the privileged interface for committing an expense.
// Each call writes balances, the expense and its log entry across several tables as one
// all-or-nothing transaction. It returns ErrConflict when any expected version is stale.
// Only the balance ledger should depend on it.
type LedgerWriter interface {
	CommitGroupExpense(ctx context.Context, commit *models.GroupCommit) error
	CommitFriendExpense(ctx context.Context, commit *models.FriendCommit) error
}
