package dynamodb

import (
	"fmt"
	"time"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/shopspring/decimal"
)

// Money is stored as decimal text so that no precision is lost to float conversion and
// a corrupt value is detectable.

const dateLayout = "2006-01-02"

type groupRecord struct {
	ID        string    `dynamodbav:"id"`
	Name      string    `dynamodbav:"name"`
	CreatedBy string    `dynamodbav:"created_by"`
	CreatedAt time.Time `dynamodbav:"created_at"`
}

type memberRecord struct {
	GroupID     string `dynamodbav:"group_id"`
	MemberID    string `dynamodbav:"member_id"`
	DisplayName string `dynamodbav:"display_name,omitempty"`
	Balance     string `dynamodbav:"balance"`
	IsAdmin     bool   `dynamodbav:"is_admin"`
	Version     int64  `dynamodbav:"version"`
}

type friendRecord struct {
	OwnerID   string `dynamodbav:"owner_id"`
	FriendID  string `dynamodbav:"friend_id"`
	NetAmount string `dynamodbav:"net_amount"`
	Version   int64  `dynamodbav:"version"`
}

type splitRecord struct {
	MemberID   string `dynamodbav:"member_id"`
	Amount     string `dynamodbav:"amount"`
	Percentage string `dynamodbav:"percentage,omitempty"`
	Shares     string `dynamodbav:"shares,omitempty"`
}

type expenseRecord struct {
	ID          string        `dynamodbav:"id"`
	Description string        `dynamodbav:"description"`
	Amount      string        `dynamodbav:"amount"`
	PaidByID    string        `dynamodbav:"paid_by_id"`
	SplitMethod string        `dynamodbav:"split_method"`
	SplitWith   []splitRecord `dynamodbav:"split_with"`
	Category    string        `dynamodbav:"category"`
	Date        string        `dynamodbav:"date"`
	GroupID     string        `dynamodbav:"group_id,omitempty"`
	FriendID    string        `dynamodbav:"friend_id,omitempty"`
	CreatedBy   string        `dynamodbav:"created_by"`
	CreatedAt   time.Time     `dynamodbav:"created_at"`
}

type logRecord struct {
	ContextKey  string    `dynamodbav:"context_key"`
	ID          string    `dynamodbav:"id"`
	ExpenseID   string    `dynamodbav:"expense_id"`
	Description string    `dynamodbav:"description"`
	Amount      string    `dynamodbav:"amount"`
	PaidBy      string    `dynamodbav:"paid_by"`
	SplitWith   []string  `dynamodbav:"split_with"`
	Category    string    `dynamodbav:"category"`
	Date        string    `dynamodbav:"date"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
}

func parseMoney(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", field, value, storage.ErrMalformedRecord)
	}
	return d, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", value, storage.ErrMalformedRecord)
	}
	return t, nil
}

func newMemberRecord(m *models.Member) memberRecord {
	return memberRecord{
		GroupID:     m.GroupID,
		MemberID:    m.ID,
		DisplayName: m.DisplayName,
		Balance:     m.Balance.StringFixed(2),
		IsAdmin:     m.IsAdmin,
		Version:     m.Version,
	}
}

func (r *memberRecord) toModel() (*models.Member, error) {
	balance, err := parseMoney("balance", r.Balance)
	if err != nil {
		return nil, fmt.Errorf("member %s of group %s: %w", r.MemberID, r.GroupID, err)
	}
	return &models.Member{
		GroupID:     r.GroupID,
		ID:          r.MemberID,
		DisplayName: r.DisplayName,
		Balance:     balance,
		IsAdmin:     r.IsAdmin,
		Version:     r.Version,
	}, nil
}

func (r *friendRecord) toModel() (*models.FriendLedgerEntry, error) {
	net, err := parseMoney("net_amount", r.NetAmount)
	if err != nil {
		return nil, fmt.Errorf("friend entry %s/%s: %w", r.OwnerID, r.FriendID, err)
	}
	return &models.FriendLedgerEntry{
		OwnerID:   r.OwnerID,
		FriendID:  r.FriendID,
		NetAmount: net,
		Version:   r.Version,
	}, nil
}

func optionalDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func newExpenseRecord(e *models.Expense) expenseRecord {
	r := expenseRecord{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		PaidByID:    e.PaidByID,
		SplitMethod: string(e.SplitMethod),
		Category:    e.Category,
		Date:        e.Date.Format(dateLayout),
		GroupID:     e.GroupID,
		FriendID:    e.FriendID,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
	for _, s := range e.SplitWith {
		r.SplitWith = append(r.SplitWith, splitRecord{
			MemberID:   s.MemberID,
			Amount:     s.Amount.StringFixed(2),
			Percentage: optionalDecimal(s.Percentage),
			Shares:     optionalDecimal(s.Shares),
		})
	}
	return r
}

func (r *expenseRecord) toModel() (*models.Expense, error) {
	amount, err := parseMoney("amount", r.Amount)
	if err != nil {
		return nil, fmt.Errorf("expense %s: %w", r.ID, err)
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("expense %s: %w", r.ID, err)
	}

	e := &models.Expense{
		ID:          r.ID,
		Description: r.Description,
		Amount:      amount,
		PaidByID:    r.PaidByID,
		SplitMethod: models.SplitMethod(r.SplitMethod),
		Category:    r.Category,
		Date:        date,
		GroupID:     r.GroupID,
		FriendID:    r.FriendID,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
	for _, s := range r.SplitWith {
		entry := models.SplitEntry{MemberID: s.MemberID}
		if entry.Amount, err = parseMoney("split amount", s.Amount); err != nil {
			return nil, fmt.Errorf("expense %s: %w", r.ID, err)
		}
		if s.Percentage != "" {
			p, err := parseMoney("percentage", s.Percentage)
			if err != nil {
				return nil, fmt.Errorf("expense %s: %w", r.ID, err)
			}
			entry.Percentage = &p
		}
		if s.Shares != "" {
			sh, err := parseMoney("shares", s.Shares)
			if err != nil {
				return nil, fmt.Errorf("expense %s: %w", r.ID, err)
			}
			entry.Shares = &sh
		}
		e.SplitWith = append(e.SplitWith, entry)
	}
	return e, nil
}

func newLogRecord(e *models.TransactionLogEntry) logRecord {
	return logRecord{
		ContextKey:  e.ContextKey,
		ID:          e.ID,
		ExpenseID:   e.ExpenseID,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		PaidBy:      e.PaidBy,
		SplitWith:   e.SplitWith,
		Category:    e.Category,
		Date:        e.Date.Format(dateLayout),
		CreatedAt:   e.CreatedAt,
	}
}

func (r *logRecord) toModel() (*models.TransactionLogEntry, error) {
	amount, err := parseMoney("amount", r.Amount)
	if err != nil {
		return nil, fmt.Errorf("log entry %s: %w", r.ID, err)
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("log entry %s: %w", r.ID, err)
	}
	return &models.TransactionLogEntry{
		ContextKey:  r.ContextKey,
		ID:          r.ID,
		ExpenseID:   r.ExpenseID,
		Description: r.Description,
		Amount:      amount,
		PaidBy:      r.PaidBy,
		SplitWith:   r.SplitWith,
		Category:    r.Category,
		Date:        date,
		CreatedAt:   r.CreatedAt,
	}, nil
}
