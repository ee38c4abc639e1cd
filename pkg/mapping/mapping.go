package mapping

import (
	"time"

	"github.com/chris/expense-ledger/pkg/aggregator"
	"github.com/chris/expense-ledger/pkg/api"
	"github.com/chris/expense-ledger/pkg/ledger"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/split"
	"github.com/chris/expense-ledger/pkg/timeline"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ToApiGroup converts a domain Group model to an API Group model.
func ToApiGroup(group *models.Group) *api.Group {
	members := make([]api.Member, len(group.Members))
	for i, m := range group.Members {
		members[i] = api.Member{
			UserId:      m.ID,
			DisplayName: m.DisplayName,
			Balance:     m.Balance,
			IsAdmin:     m.IsAdmin,
		}
	}
	return &api.Group{
		Id:        group.ID,
		Name:      group.Name,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt,
		Members:   members,
	}
}

// ToDomainGroupDraft converts an API NewGroup model to a group draft created by the acting user.
func ToDomainGroupDraft(newGroup *api.NewGroup, createdBy string) ledger.GroupDraft {
	draft := ledger.GroupDraft{Name: newGroup.Name, CreatedBy: createdBy}
	for _, m := range newGroup.Members {
		member := ledger.MemberDraft{ID: m.UserId}
		if m.DisplayName != nil {
			member.DisplayName = *m.DisplayName
		}
		if m.IsAdmin != nil {
			member.IsAdmin = *m.IsAdmin
		}
		draft.Members = append(draft.Members, member)
	}
	return draft
}

// ToDomainExpenseDraft converts an API NewExpense model to an expense draft.
// The caller sets the group or friend context.
func ToDomainExpenseDraft(newExpense *api.NewExpense, createdBy string) ledger.ExpenseDraft {
	draft := ledger.ExpenseDraft{
		Amount:       newExpense.Amount,
		PayerID:      newExpense.PaidBy,
		SplitMethod:  models.SplitMethod(newExpense.SplitMethod),
		Participants: newExpense.Participants,
		CreatedBy:    createdBy,
		Description:  newExpense.Description,
	}
	if newExpense.Category != nil {
		draft.Category = *newExpense.Category
	}
	if newExpense.Date != nil {
		draft.Date = newExpense.Date.Time
	}
	for _, in := range newExpense.Splits {
		draft.Inputs = append(draft.Inputs, split.Input{
			MemberID:   in.UserId,
			Percentage: in.Percentage,
			Amount:     in.Amount,
			Shares:     in.Shares,
		})
	}
	return draft
}

// ToApiCommitResult converts a ledger CommitResult to an API CommitResult model.
func ToApiCommitResult(result *ledger.CommitResult) *api.CommitResult {
	return &api.CommitResult{
		ExpenseId: toUUID(result.ExpenseID),
		Balances:  result.Balances,
	}
}

// ToApiExpense converts a domain Expense model to an API Expense model.
func ToApiExpense(expense *models.Expense) *api.Expense {
	splits := make([]api.SplitEntry, len(expense.SplitWith))
	for i, s := range expense.SplitWith {
		splits[i] = api.SplitEntry{
			UserId:     s.MemberID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
			Shares:     s.Shares,
		}
	}
	out := &api.Expense{
		Id:          toUUID(expense.ID),
		Description: expense.Description,
		Amount:      expense.Amount,
		PaidBy:      expense.PaidByID,
		SplitMethod: api.SplitMethod(expense.SplitMethod),
		SplitWith:   splits,
		Category:    expense.Category,
		Date:        toDate(expense.Date),
		CreatedBy:   expense.CreatedBy,
		CreatedAt:   expense.CreatedAt,
	}
	if expense.GroupID != "" {
		out.GroupId = &expense.GroupID
	}
	if expense.FriendID != "" {
		out.FriendId = &expense.FriendID
	}
	return out
}

// ToApiFriends converts the owner's friend entries to API Friend models.
func ToApiFriends(entries []models.FriendLedgerEntry) []api.Friend {
	friends := make([]api.Friend, len(entries))
	for i, e := range entries {
		friends[i] = api.Friend{UserId: e.FriendID, NetAmount: e.NetAmount}
	}
	return friends
}

// ToApiTimeline converts a computed timeline to an API Timeline model.
func ToApiTimeline(tl timeline.Timeline) *api.Timeline {
	days := make([]api.TimelineDay, len(tl.Days))
	for i, d := range tl.Days {
		entries := make([]api.TimelineEntry, len(d.Entries))
		for j, e := range d.Entries {
			entries[j] = api.TimelineEntry{
				Id:          e.ID,
				ExpenseId:   e.ExpenseID,
				Description: e.Description,
				Amount:      e.Amount,
				PaidBy:      e.PaidBy,
				SplitWith:   e.SplitWith,
				Category:    e.Category,
				CreatedAt:   e.CreatedAt,
			}
		}
		days[i] = api.TimelineDay{Date: toDate(d.Date), Total: d.Total, Entries: entries}
	}
	categories := make([]api.CategoryShare, len(tl.Breakdown.Categories))
	for i, c := range tl.Breakdown.Categories {
		categories[i] = api.CategoryShare{Category: c.Category, Amount: c.Amount, Percentage: c.Percentage}
	}
	return &api.Timeline{Days: days, Total: tl.Breakdown.Total, Categories: categories}
}

// ToApiBalanceSummary converts an aggregator Summary to an API BalanceSummary model.
func ToApiBalanceSummary(summary *aggregator.Summary) *api.BalanceSummary {
	return &api.BalanceSummary{
		UserId:     summary.UserID,
		Net:        summary.Net,
		TotalOwed:  summary.TotalOwed,
		TotalOwing: summary.TotalOwing,
		Groups:     toApiContributions(summary.Groups),
		Friends:    toApiContributions(summary.Friends),
	}
}

func toApiContributions(in []aggregator.Contribution) []api.Contribution {
	out := make([]api.Contribution, len(in))
	for i, c := range in {
		out[i] = api.Contribution{Id: c.ID, Amount: c.Amount}
	}
	return out
}

func toDate(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: t}
}

// toUUID parses a stored id. Ids are always generated as UUIDs, so a parse failure yields the nil UUID.
func toUUID(id string) openapi_types.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
