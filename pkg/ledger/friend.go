package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/split"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/shopspring/decimal"
)

// friendBalanceChange is the change to the acting user's side of the pair: what the friend
// owes if the user paid, or minus the user's own share if the friend paid.
func friendBalanceChange(userID, payerID string, allocations []split.Allocation) decimal.Decimal {
	change := decimal.Zero
	for _, a := range allocations {
		if payerID == userID && a.MemberID != userID {
			change = change.Add(a.Amount)
		}
		if payerID != userID && a.MemberID == userID {
			change = change.Sub(a.Amount)
		}
	}
	return change
}

func (l *Ledger) readFriendEntry(ctx context.Context, ownerID, friendID string) (*models.FriendLedgerEntry, error) {
	e, err := l.Store.GetFriendEntry(ctx, ownerID, friendID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError(CodeStaleMembership, err, "%s and %s are not friends", ownerID, friendID)
		}
		return nil, fmt.Errorf("failed to read friend entry %s/%s: %w", ownerID, friendID, err)
	}
	return e, nil
}

func (l *Ledger) commitFriend(ctx context.Context, draft *ExpenseDraft, allocations []split.Allocation, expense *models.Expense, entry *models.TransactionLogEntry) (map[string]decimal.Decimal, error) {
	userID, friendID := draft.CreatedBy, draft.FriendID

	// 1. Re-read both sides of the pair.
	userEntry, err := l.readFriendEntry(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	friendEntry, err := l.readFriendEntry(ctx, friendID, userID)
	if err != nil {
		return nil, err
	}

	// 2. Only the two parties can pay or take part.
	isParty := func(id string) bool { return id == userID || id == friendID }
	if !isParty(draft.PayerID) {
		return nil, newError(CodeStaleMembership, nil, "payer %s is not part of this friendship", draft.PayerID)
	}
	for _, a := range allocations {
		if !isParty(a.MemberID) {
			return nil, newError(CodeStaleMembership, nil, "%s is not part of this friendship, please re-select participants", a.MemberID)
		}
	}

	// 3. Apply +change to the user and -change to the friend.
	change := friendBalanceChange(userID, draft.PayerID, allocations)
	newUser := userEntry.NetAmount.Add(change)
	newFriend := friendEntry.NetAmount.Sub(change)
	if !newUser.Add(newFriend).IsZero() {
		err := newError(CodeInvariantViolation, nil, "friend entries %s/%s would not mirror each other (%s vs %s)",
			userID, friendID, newUser.String(), newFriend.String())
		slog.ErrorContext(ctx, "refusing to commit friend expense",
			"expense_id", expense.ID,
			"change", change.String(),
			"error", err)
		return nil, err
	}

	// 4. Write both sides, the expense and its log entry in one transaction.
	commit := &models.FriendCommit{
		Entries: [2]models.FriendEntryUpdate{
			{OwnerID: userID, FriendID: friendID, NetAmount: newUser, ExpectedVersion: userEntry.Version},
			{OwnerID: friendID, FriendID: userID, NetAmount: newFriend, ExpectedVersion: friendEntry.Version},
		},
		Expense:  expense,
		LogEntry: entry,
	}
	if err := l.Store.CommitFriendExpense(ctx, commit); err != nil {
		return nil, fmt.Errorf("failed to commit friend expense: %w", err)
	}

	return map[string]decimal.Decimal{userID: newUser, friendID: newFriend}, nil
}
