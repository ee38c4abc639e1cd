package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/split"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/shopspring/decimal"
)

// groupDeltas credits the payer with what the others owe and debits every other
// participant by their allocation. The payer's own allocation cancels out.
func groupDeltas(payerID string, total decimal.Decimal, allocations []split.Allocation) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal, len(allocations)+1)
	deltas[payerID] = total
	for _, a := range allocations {
		deltas[a.MemberID] = deltas[a.MemberID].Sub(a.Amount)
	}
	return deltas
}

// checkGroupInvariants verifies the allocations are non-negative and sum exactly to the
// total, and that the deltas sum to zero.
func checkGroupInvariants(total decimal.Decimal, allocations []split.Allocation, deltas map[string]decimal.Decimal) error {
	if !total.IsPositive() {
		return newError(CodeInvariantViolation, nil, "expense amount %s is not positive", total.String())
	}
	for _, a := range allocations {
		if a.Amount.IsNegative() {
			return newError(CodeInvariantViolation, nil, "negative allocation %s for %s", a.Amount.String(), a.MemberID)
		}
	}
	if sum := split.Sum(allocations); !sum.Equal(total) {
		return newError(CodeInvariantViolation, nil, "allocations sum to %s, expense is %s", sum.String(), total.String())
	}

	sum := decimal.Zero
	for _, d := range deltas {
		sum = sum.Add(d)
	}
	if !sum.IsZero() {
		return newError(CodeInvariantViolation, nil, "balance deltas sum to %s", sum.String())
	}
	return nil
}

func (l *Ledger) commitGroup(ctx context.Context, draft *ExpenseDraft, total decimal.Decimal, allocations []split.Allocation, expense *models.Expense, entry *models.TransactionLogEntry) (map[string]decimal.Decimal, error) {
	// 1. Re-read every member's balance and version.
	group, err := l.Store.GetGroup(ctx, draft.GroupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError(CodeStaleMembership, err, "group %s no longer exists", draft.GroupID)
		}
		return nil, fmt.Errorf("failed to read group %s: %w", draft.GroupID, err)
	}

	members := make(map[string]models.Member, len(group.Members))
	for _, m := range group.Members {
		members[m.ID] = m
	}

	// 2. Every member the expense references must still be in the group.
	if _, ok := members[draft.PayerID]; !ok {
		return nil, newError(CodeStaleMembership, nil, "payer %s is not a member of group %s", draft.PayerID, draft.GroupID)
	}
	for _, a := range allocations {
		if _, ok := members[a.MemberID]; !ok {
			return nil, newError(CodeStaleMembership, nil, "%s is not a member of group %s, please re-select participants", a.MemberID, draft.GroupID)
		}
	}

	// 3. Compute and verify the deltas.
	deltas := groupDeltas(draft.PayerID, total, allocations)
	if err := checkGroupInvariants(total, allocations, deltas); err != nil {
		slog.ErrorContext(ctx, "refusing to commit group expense",
			"group_id", draft.GroupID,
			"expense_id", expense.ID,
			"deltas", deltas,
			"error", err)
		return nil, err
	}

	// 4. Write new balances, the expense and its log entry in one transaction.
	memberIDs := make([]string, 0, len(deltas))
	for id := range deltas {
		memberIDs = append(memberIDs, id)
	}
	sort.Strings(memberIDs)

	commit := &models.GroupCommit{
		GroupID:  draft.GroupID,
		Updates:  make([]models.BalanceUpdate, 0, len(memberIDs)),
		Expense:  expense,
		LogEntry: entry,
	}
	balances := make(map[string]decimal.Decimal, len(memberIDs))
	for _, id := range memberIDs {
		m := members[id]
		newBalance := m.Balance.Add(deltas[id])
		commit.Updates = append(commit.Updates, models.BalanceUpdate{
			MemberID:        id,
			Balance:         newBalance,
			ExpectedVersion: m.Version,
		})
		balances[id] = newBalance
	}

	if err := l.Store.CommitGroupExpense(ctx, commit); err != nil {
		return nil, fmt.Errorf("failed to commit group expense: %w", err)
	}

	// 5. The balances written are the post-commit balances.
	return balances, nil
}
