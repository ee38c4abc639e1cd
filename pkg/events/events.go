package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCommitted is emitted after an expense and its balance changes have been committed.
type ExpenseCommitted struct {
	ExpenseID   string          `json:"expense_id"`
	ContextKey  string          `json:"context_key"`
	GroupID     string          `json:"group_id,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	FriendID    string          `json:"friend_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	CommittedAt time.Time       `json:"committed_at"`
}

// Publisher defines the interface for announcing committed expenses to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event ExpenseCommitted) error
}

// NoOpPublisher is a publisher that does nothing.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, event ExpenseCommitted) error {
	return nil
}
