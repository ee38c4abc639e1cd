package models

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SplitMethod defines how an expense amount is divided among its participants.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitPercentage SplitMethod = "percentage"
	SplitUnequal    SplitMethod = "unequal"
	SplitShares     SplitMethod = "shares"
)

// Group is a set of members sharing a zero-sum ledger.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Members   []Member  `json:"members"`
}

// Member returns the member with the given id, if present.
func (g *Group) Member(memberID string) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == memberID {
			return m, true
		}
	}
	return Member{}, false
}

// Member is a participant in a group.
// A positive balance means the member is owed money, a negative one that they owe.
type Member struct {
	GroupID     string          `json:"group_id"`
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name"`
	Balance     decimal.Decimal `json:"balance"`
	IsAdmin     bool            `json:"is_admin"`
	Version     int64           `json:"version"`
}

// FriendLedgerEntry is the owner's position versus one friend.
// Every friendship has two entries which are always negatives of each other.
type FriendLedgerEntry struct {
	OwnerID   string          `json:"owner_id"`
	FriendID  string          `json:"friend_id"`
	NetAmount decimal.Decimal `json:"net_amount"`
	Version   int64           `json:"version"`
}

// SplitEntry is one participant's share of an expense as persisted on the expense.
type SplitEntry struct {
	MemberID   string           `json:"member_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Shares     *decimal.Decimal `json:"shares,omitempty"`
}

// Expense belongs to exactly one context: a group or a friend pair.
type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidByID    string          `json:"paid_by_id"`
	SplitMethod SplitMethod     `json:"split_method"`
	SplitWith   []SplitEntry    `json:"split_with"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	GroupID     string          `json:"group_id,omitempty"`
	FriendID    string          `json:"friend_id,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ContextKey returns the transaction log partition the expense belongs to.
func (e *Expense) ContextKey() string {
	if e.GroupID != "" {
		return GroupContextKey(e.GroupID)
	}
	return FriendContextKey(e.CreatedBy, e.FriendID)
}

// TransactionLogEntry is the write-once, denormalized view of an expense used for timelines.
type TransactionLogEntry struct {
	ContextKey  string          `json:"context_key"`
	ID          string          `json:"id"`
	ExpenseID   string          `json:"expense_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SplitWith   []string        `json:"split_with"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GroupContextKey is the transaction log key of a group.
func GroupContextKey(groupID string) string {
	return "group#" + groupID
}

// FriendContextKey is the transaction log key of a friend pair.
// Both parties map to the same key regardless of argument order.
func FriendContextKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return "friend#" + strings.Join(pair, "#")
}

// BalanceUpdate sets a member's balance, provided it is still at ExpectedVersion.
type BalanceUpdate struct {
	MemberID        string
	Balance         decimal.Decimal
	ExpectedVersion int64
}

// GroupCommit is everything written atomically for one group expense.
type GroupCommit struct {
	GroupID  string
	Updates  []BalanceUpdate
	Expense  *Expense
	LogEntry *TransactionLogEntry
}

// FriendEntryUpdate sets one side of a friend pair, provided it is still at ExpectedVersion.
type FriendEntryUpdate struct {
	OwnerID         string
	FriendID        string
	NetAmount       decimal.Decimal
	ExpectedVersion int64
}

// FriendCommit is everything written atomically for one friend expense.
type FriendCommit struct {
	Entries  [2]FriendEntryUpdate
	Expense  *Expense
	LogEntry *TransactionLogEntry
}
