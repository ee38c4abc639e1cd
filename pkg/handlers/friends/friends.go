package friends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/chris/expense-ledger/pkg/api"
	"github.com/chris/expense-ledger/pkg/ledger"
	"github.com/chris/expense-ledger/pkg/mapping"
	"github.com/chris/expense-ledger/pkg/middleware"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/response"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/chris/expense-ledger/pkg/timeline"
)

// Ledger is the part of the balance ledger the friend handlers write through.
type Ledger interface {
	EstablishFriendship(ctx context.Context, userID, friendID string) error
	CommitExpense(ctx context.Context, draft ledger.ExpenseDraft) (*ledger.CommitResult, error)
}

// Store is the read side the friend handlers need.
type Store interface {
	storage.FriendReader
	storage.ExpenseReader
}

// FriendsHandler holds the dependencies for friend-related handlers.
type FriendsHandler struct {
	Ledger Ledger
	Store  Store
}

// NewFriendsHandler creates a new FriendsHandler.
func NewFriendsHandler(l Ledger, store Store) *FriendsHandler {
	return &FriendsHandler{Ledger: l, Store: store}
}

// CreateFriend befriends the acting user with another user, both at a zero balance.
func (h *FriendsHandler) CreateFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.ActingUser(w, r)
	if !ok {
		return
	}

	var newFriend api.NewFriend
	if err := json.NewDecoder(r.Body).Decode(&newFriend); err != nil {
		response.BadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	friendID := strings.TrimSpace(newFriend.UserId)

	if err := h.Ledger.EstablishFriendship(r.Context(), userID, friendID); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, api.Friend{UserId: friendID})
}

// ListFriends returns the acting user's position versus each friend.
func (h *FriendsHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.ActingUser(w, r)
	if !ok {
		return
	}

	entries, err := h.Store.ListFriendEntries(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, mapping.ToApiFriends(entries))
}

// CreateFriendExpense records an expense between the acting user and a friend.
func (h *FriendsHandler) CreateFriendExpense(w http.ResponseWriter, r *http.Request, friendId string) {
	userID, ok := middleware.ActingUser(w, r)
	if !ok {
		return
	}

	var newExpense api.NewExpense
	if err := json.NewDecoder(r.Body).Decode(&newExpense); err != nil {
		response.BadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	draft := mapping.ToDomainExpenseDraft(&newExpense, userID)
	draft.FriendID = friendId

	result, err := h.Ledger.CommitExpense(r.Context(), draft)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, mapping.ToApiCommitResult(result))
}

// GetFriendTimeline returns the pair's shared expenses by date and by category.
func (h *FriendsHandler) GetFriendTimeline(w http.ResponseWriter, r *http.Request, friendId string) {
	userID, ok := middleware.ActingUser(w, r)
	if !ok {
		return
	}

	if _, err := h.Store.GetFriendEntry(r.Context(), userID, friendId); err != nil {
		response.FromError(w, r, err)
		return
	}

	entries, err := h.Store.ListTransactionLog(r.Context(), models.FriendContextKey(userID, friendId))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, mapping.ToApiTimeline(timeline.Build(entries)))
}
