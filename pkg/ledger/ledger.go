package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/expense-ledger/pkg/events"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/split"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/shopspring/decimal"
)

// Config bounds how long and how often a commit is attempted.
type Config struct {
	MaxAttempts  int
	Timeout      time.Duration
	RetryBackoff time.Duration
}

// DefaultConfig returns three attempts within five seconds.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		Timeout:      5 * time.Second,
		RetryBackoff: 25 * time.Millisecond,
	}
}

// Ledger is the only writer of member balances and friend entries.
type Ledger struct {
	Store     storage.LedgerStore
	Publisher events.Publisher
	Config    Config
	now       func() time.Time
}

// New creates a new Ledger. A nil publisher disables event publishing.
func New(store storage.LedgerStore, publisher events.Publisher, cfg Config) *Ledger {
	if publisher == nil {
		publisher = &events.NoOpPublisher{}
	}
	defaults := DefaultConfig()
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RetryBackoff < 0 {
		cfg.RetryBackoff = 0
	}
	return &Ledger{
		Store:     store,
		Publisher: publisher,
		Config:    cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CommitResult is returned by a successful commit.
type CommitResult struct {
	ExpenseID string
	// Balances holds the post-commit balance of every affected member, or both sides of the
	// friend pair keyed by owner id.
	Balances map[string]decimal.Decimal
	Expense  *models.Expense
	Attempts int
}

// CommitExpense validates and allocates the draft, then applies it to the group or friend
// pair as a single atomic write together with the expense and its log entry. A write
// conflict restarts the whole read-compute-write cycle, up to Config.MaxAttempts times.
// Each call creates a new expense; it is not idempotent.
func (l *Ledger) CommitExpense(ctx context.Context, draft ExpenseDraft) (*CommitResult, error) {
	// 1. Everything that needs no I/O happens before the first read.
	if err := draft.validate(); err != nil {
		return nil, err
	}
	allocations, err := split.ComputeAllocations(draft.Amount, draft.SplitMethod, draft.Participants, draft.Inputs)
	if err != nil {
		return nil, err
	}
	total := split.RoundCents(draft.Amount)
	expense, entry := newExpense(&draft, total, allocations, l.now())

	ctx, cancel := context.WithTimeout(ctx, l.Config.Timeout)
	defer cancel()

	// 2. Read, compute and write until the store accepts the commit.
	var lastErr error
	for attempt := 1; attempt <= l.Config.MaxAttempts; attempt++ {
		var balances map[string]decimal.Decimal
		if draft.GroupID != "" {
			balances, err = l.commitGroup(ctx, &draft, total, allocations, expense, entry)
		} else {
			balances, err = l.commitFriend(ctx, &draft, allocations, expense, entry)
		}

		if err == nil {
			slog.InfoContext(ctx, "expense committed",
				"expense_id", expense.ID,
				"context_key", entry.ContextKey,
				"amount", total.StringFixed(2),
				"attempt", attempt)
			l.publish(ctx, expense)
			return &CommitResult{ExpenseID: expense.ID, Balances: balances, Expense: expense, Attempts: attempt}, nil
		}

		if timeoutErr := l.checkDeadline(ctx, err); timeoutErr != nil {
			return nil, timeoutErr
		}
		if !errors.Is(err, storage.ErrConflict) {
			return nil, err
		}

		lastErr = err
		slog.WarnContext(ctx, "commit conflict, retrying",
			"expense_id", expense.ID,
			"context_key", entry.ContextKey,
			"attempt", attempt)

		if attempt < l.Config.MaxAttempts {
			if err := l.wait(ctx, attempt); err != nil {
				return nil, l.checkDeadline(ctx, err)
			}
		}
	}

	return nil, newError(CodeConcurrentUpdateConflict, lastErr, "gave up after %d attempts, please try again", l.Config.MaxAttempts)
}

// checkDeadline converts a context failure into the matching ledger error, or returns nil.
func (l *Ledger) checkDeadline(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return newError(CodeCommitTimeout, err, "commit did not complete within %s", l.Config.Timeout)
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		return fmt.Errorf("commit cancelled: %w", err)
	}
	return nil
}

func (l *Ledger) wait(ctx context.Context, attempt int) error {
	if l.Config.RetryBackoff == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(attempt) * l.Config.RetryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// publish announces the commit. The expense is already durable, so a failure here is
// logged and never reported to the caller.
func (l *Ledger) publish(ctx context.Context, expense *models.Expense) {
	event := events.ExpenseCommitted{
		ExpenseID:   expense.ID,
		ContextKey:  expense.ContextKey(),
		GroupID:     expense.GroupID,
		Amount:      expense.Amount,
		PaidBy:      expense.PaidByID,
		CommittedAt: expense.CreatedAt,
	}
	if expense.FriendID != "" {
		event.UserID = expense.CreatedBy
		event.FriendID = expense.FriendID
	}

	ctx = context.WithoutCancel(ctx)
	if err := l.Publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "CRITICAL: expense committed but failed to publish event",
			"expense_id", expense.ID,
			"error", err)
	}
}
