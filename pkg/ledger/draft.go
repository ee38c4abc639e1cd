package ledger

import (
	"time"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/split"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseDraft is an expense as submitted by the acting user, before allocation.
// Exactly one of GroupID and FriendID must be set. For a friend expense the pair is
// (CreatedBy, FriendID).
type ExpenseDraft struct {
	Amount       decimal.Decimal
	PayerID      string
	SplitMethod  models.SplitMethod
	Participants []string
	Inputs       []split.Input
	GroupID      string
	FriendID     string
	CreatedBy    string
	Category     string
	Date         time.Time
	Description  string
}

func (d *ExpenseDraft) validate() error {
	switch {
	case d.GroupID == "" && d.FriendID == "":
		return newError(CodeInvalidDraft, nil, "expense needs a group or a friend")
	case d.GroupID != "" && d.FriendID != "":
		return newError(CodeInvalidDraft, nil, "expense cannot belong to both a group and a friend")
	case d.PayerID == "":
		return newError(CodeInvalidDraft, nil, "payer is required")
	case d.CreatedBy == "":
		return newError(CodeInvalidDraft, nil, "creator is required")
	case d.FriendID != "" && d.FriendID == d.CreatedBy:
		return newError(CodeInvalidDraft, nil, "cannot record a friend expense with yourself")
	}
	return nil
}

// newExpense builds the expense and its log entry once, so every retry writes the same
// records under the same id.
func newExpense(d *ExpenseDraft, total decimal.Decimal, allocations []split.Allocation, now time.Time) (*models.Expense, *models.TransactionLogEntry) {
	inputs := make(map[string]split.Input, len(d.Inputs))
	for _, in := range d.Inputs {
		inputs[in.MemberID] = in
	}

	entries := make([]models.SplitEntry, len(allocations))
	memberIDs := make([]string, len(allocations))
	for i, a := range allocations {
		entry := models.SplitEntry{MemberID: a.MemberID, Amount: a.Amount}
		switch d.SplitMethod {
		case models.SplitPercentage:
			entry.Percentage = inputs[a.MemberID].Percentage
		case models.SplitShares:
			entry.Shares = inputs[a.MemberID].Shares
		}
		entries[i] = entry
		memberIDs[i] = a.MemberID
	}

	date := d.Date
	if date.IsZero() {
		date = now
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	category := d.Category
	if category == "" {
		category = "uncategorized"
	}

	expense := &models.Expense{
		ID:          uuid.New().String(),
		Description: d.Description,
		Amount:      total,
		PaidByID:    d.PayerID,
		SplitMethod: d.SplitMethod,
		SplitWith:   entries,
		Category:    category,
		Date:        date,
		GroupID:     d.GroupID,
		FriendID:    d.FriendID,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   now,
	}

	entry := &models.TransactionLogEntry{
		ContextKey:  expense.ContextKey(),
		ID:          uuid.New().String(),
		ExpenseID:   expense.ID,
		Description: expense.Description,
		Amount:      expense.Amount,
		PaidBy:      expense.PaidByID,
		SplitWith:   memberIDs,
		Category:    expense.Category,
		Date:        expense.Date,
		CreatedAt:   now,
	}

	return expense, entry
}
