package groups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/expense-ledger/pkg/api"
	"github.com/chris/expense-ledger/pkg/ledger"
	"github.com/chris/expense-ledger/pkg/mapping"
	"github.com/chris/expense-ledger/pkg/middleware"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/response"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/chris/expense-ledger/pkg/timeline"
)

// Ledger is the part of the balance ledger the group handlers write through.
type Ledger interface {
	CreateGroup(ctx context.Context, draft ledger.GroupDraft) (*models.Group, error)
	CommitExpense(ctx context.Context, draft ledger.ExpenseDraft) (*ledger.CommitResult, error)
}

// Store is the read side the group handlers need.
type Store interface {
	storage.GroupReader
	storage.ExpenseReader
}

// GroupsHandler holds the dependencies for group-related handlers.
type GroupsHandler struct {
	Ledger Ledger
	Store  Store
}

// NewGroupsHandler creates a new GroupsHandler.
func NewGroupsHandler(l Ledger, store Store) *GroupsHandler {
	return &GroupsHandler{Ledger: l, Store: store}
}

// CreateGroup creates a group with the acting user as admin.
func (h *GroupsHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.ActingUser(w, r)
	if !ok {
		return
	}

	var newGroup api.NewGroup
	if err := json.NewDecoder(r.Body).Decode(&newGroup); err != nil {
		response.BadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	group, err := h.Ledger.CreateGroup(r.Context(), mapping.ToDomainGroupDraft(&newGroup, userID))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, mapping.ToApiGroup(group))
}

// GetGroupById returns a group with its member balances. Only members may read it.
func (h *GroupsHandler) GetGroupById(w http.ResponseWriter, r *http.Request, groupId string) {
	userID, ok := middleware.ActingUser(w, r)
	if !ok {
		return
	}

	group, err := h.Store.GetGroup(r.Context(), groupId)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if _, isMember := group.Member(userID); !isMember {
		response.Forbidden(w, "not a member of this group")
		return
	}

	response.JSON(w, http.StatusOK, mapping.ToApiGroup(group))
}

// CreateGroupExpense records an expense in the group on behalf of the acting user.
func (h *GroupsHandler) CreateGroupExpense(w http.ResponseWriter, r *http.Request, groupId string) {
	userID, ok := h.requireMember(w, r, groupId)
	if !ok {
		return
	}

	var newExpense api.NewExpense
	if err := json.NewDecoder(r.Body).Decode(&newExpense); err != nil {
		response.BadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	draft := mapping.ToDomainExpenseDraft(&newExpense, userID)
	draft.GroupID = groupId

	result, err := h.Ledger.CommitExpense(r.Context(), draft)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, mapping.ToApiCommitResult(result))
}

// GetGroupTimeline returns the group's expenses by date and its spend by category.
func (h *GroupsHandler) GetGroupTimeline(w http.ResponseWriter, r *http.Request, groupId string) {
	if _, ok := h.requireMember(w, r, groupId); !ok {
		return
	}

	entries, err := h.Store.ListTransactionLog(r.Context(), models.GroupContextKey(groupId))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, mapping.ToApiTimeline(timeline.Build(entries)))
}

// requireMember resolves the acting user and checks they belong to the group.
// A missing group is a 404, a non-member a 403.
func (h *GroupsHandler) requireMember(w http.ResponseWriter, r *http.Request, groupId string) (string, bool) {
	userID, ok := middleware.ActingUser(w, r)
	if !ok {
		return "", false
	}

	if _, err := h.Store.GetMember(r.Context(), groupId, userID); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			response.FromError(w, r, err)
			return "", false
		}
		if _, err := h.Store.GetGroup(r.Context(), groupId); err != nil {
			response.FromError(w, r, err)
			return "", false
		}
		response.Forbidden(w, "not a member of this group")
		return "", false
	}
	return userID, true
}
