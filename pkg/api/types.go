package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// SplitMethod defines model for SplitMethod.
type SplitMethod string

const (
	Equal      SplitMethod = "equal"
	Percentage SplitMethod = "percentage"
	Unequal    SplitMethod = "unequal"
	Shares     SplitMethod = "shares"
)

// NewMember defines model for NewMember.
type NewMember struct {
	UserId      string  `json:"user_id"`
	DisplayName *string `json:"display_name,omitempty"`
	IsAdmin     *bool   `json:"is_admin,omitempty"`
}

// NewGroup defines model for NewGroup.
type NewGroup struct {
	Name    string      `json:"name"`
	Members []NewMember `json:"members"`
}

// Member defines model for Member.
type Member struct {
	UserId      string          `json:"user_id"`
	DisplayName string          `json:"display_name,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	IsAdmin     bool            `json:"is_admin"`
}

// Group defines model for Group.
type Group struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Members   []Member  `json:"members"`
}

// SplitInput defines model for SplitInput. Which field is read depends on the split method.
type SplitInput struct {
	UserId     string           `json:"user_id"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Shares     *decimal.Decimal `json:"shares,omitempty"`
}

// NewExpense defines model for NewExpense.
type NewExpense struct {
	Description  string              `json:"description"`
	Amount       decimal.Decimal     `json:"amount"`
	PaidBy       string              `json:"paid_by"`
	SplitMethod  SplitMethod         `json:"split_method"`
	Participants []string            `json:"participants"`
	Splits       []SplitInput        `json:"splits,omitempty"`
	Category     *string             `json:"category,omitempty"`
	Date         *openapi_types.Date `json:"date,omitempty"`
}

// CommitResult defines model for CommitResult.
type CommitResult struct {
	ExpenseId openapi_types.UUID         `json:"expense_id"`
	Balances  map[string]decimal.Decimal `json:"balances"`
}

// SplitEntry defines model for SplitEntry.
type SplitEntry struct {
	UserId     string           `json:"user_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Shares     *decimal.Decimal `json:"shares,omitempty"`
}

// Expense defines model for Expense.
type Expense struct {
	Id          openapi_types.UUID `json:"id"`
	Description string             `json:"description"`
	Amount      decimal.Decimal    `json:"amount"`
	PaidBy      string             `json:"paid_by"`
	SplitMethod SplitMethod        `json:"split_method"`
	SplitWith   []SplitEntry       `json:"split_with"`
	Category    string             `json:"category"`
	Date        openapi_types.Date `json:"date"`
	GroupId     *string            `json:"group_id,omitempty"`
	FriendId    *string            `json:"friend_id,omitempty"`
	CreatedBy   string             `json:"created_by"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewFriend defines model for NewFriend.
type NewFriend struct {
	UserId string `json:"user_id"`
}

// Friend defines model for Friend. A positive net amount means the friend owes the user.
type Friend struct {
	UserId    string          `json:"user_id"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

// TimelineEntry defines model for TimelineEntry.
type TimelineEntry struct {
	Id          string          `json:"id"`
	ExpenseId   string          `json:"expense_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SplitWith   []string        `json:"split_with"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TimelineDay defines model for TimelineDay.
type TimelineDay struct {
	Date    openapi_types.Date `json:"date"`
	Total   decimal.Decimal    `json:"total"`
	Entries []TimelineEntry    `json:"entries"`
}

// CategoryShare defines model for CategoryShare.
type CategoryShare struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Timeline defines model for Timeline.
type Timeline struct {
	Days       []TimelineDay   `json:"days"`
	Total      decimal.Decimal `json:"total"`
	Categories []CategoryShare `json:"categories"`
}

// Contribution defines model for Contribution.
type Contribution struct {
	Id     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// BalanceSummary defines model for BalanceSummary.
type BalanceSummary struct {
	UserId     string          `json:"user_id"`
	Net        decimal.Decimal `json:"net"`
	TotalOwed  decimal.Decimal `json:"total_owed"`
	TotalOwing decimal.Decimal `json:"total_owing"`
	Groups     []Contribution  `json:"groups"`
	Friends    []Contribution  `json:"friends"`
}

// Error defines model for Error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error Error `json:"error"`
}
