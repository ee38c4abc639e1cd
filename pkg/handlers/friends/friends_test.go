package friends_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/expense-ledger/pkg/api"
	"github.com/chris/expense-ledger/pkg/handlers/friends"
	"github.com/chris/expense-ledger/pkg/ledger"
	"github.com/chris/expense-ledger/pkg/middleware"
	"github.com/chris/expense-ledger/pkg/storage/memory"
	"github.com/chris/expense-ledger/pkg/storage/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

// newHandler returns a handler over a memory store where alice and bob are friends.
func newHandler(t *testing.T) *friends.FriendsHandler {
	t.Helper()
	store := memory.New()
	l := ledger.New(store, nil, ledger.DefaultConfig())
	require.NoError(t, l.EstablishFriendship(context.Background(), "alice", "bob"))
	return friends.NewFriendsHandler(l, store)
}

func postExpense(t *testing.T, h *friends.FriendsHandler, userID, friendID string, expense api.NewExpense) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(expense)
	req := asUser(httptest.NewRequest(http.MethodPost, "/friends/"+friendID+"/expenses", bytes.NewReader(body)), userID)
	rr := httptest.NewRecorder()
	h.CreateFriendExpense(rr, req, friendID)
	return rr
}

func TestCreateFriend(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h := newHandler(t)

		body, _ := json.Marshal(api.NewFriend{UserId: "carol"})
		req := asUser(httptest.NewRequest(http.MethodPost, "/friends", bytes.NewReader(body)), "alice")
		rr := httptest.NewRecorder()

		h.CreateFriend(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Already Friends", func(t *testing.T) {
		h := newHandler(t)

		body, _ := json.Marshal(api.NewFriend{UserId: "alice"})
		req := asUser(httptest.NewRequest(http.MethodPost, "/friends", bytes.NewReader(body)), "bob")
		rr := httptest.NewRecorder()

		h.CreateFriend(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Self", func(t *testing.T) {
		h := newHandler(t)

		body, _ := json.Marshal(api.NewFriend{UserId: "alice"})
		req := asUser(httptest.NewRequest(http.MethodPost, "/friends", bytes.NewReader(body)), "alice")
		rr := httptest.NewRecorder()

		h.CreateFriend(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestCreateFriendExpense(t *testing.T) {
	t.Run("Success Mirrors Both Sides", func(t *testing.T) {
		h := newHandler(t)
		twelve := decimal.NewFromInt(12)

		rr := postExpense(t, h, "alice", "bob", api.NewExpense{
			Description: "Taxi", Amount: twelve, PaidBy: "alice", SplitMethod: api.Unequal,
			Participants: []string{"bob"}, Splits: []api.SplitInput{{UserId: "bob", Amount: &twelve}},
		})

		require.Equal(t, http.StatusCreated, rr.Code)
		var result api.CommitResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, "12.00", result.Balances["alice"].StringFixed(2))
		assert.Equal(t, "-12.00", result.Balances["bob"].StringFixed(2))

		req := asUser(httptest.NewRequest(http.MethodGet, "/friends", nil), "bob")
		list := httptest.NewRecorder()
		h.ListFriends(list, req)

		require.Equal(t, http.StatusOK, list.Code)
		var entries []api.Friend
		require.NoError(t, json.Unmarshal(list.Body.Bytes(), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "alice", entries[0].UserId)
		assert.Equal(t, "-12.00", entries[0].NetAmount.StringFixed(2))
	})

	t.Run("Not Friends", func(t *testing.T) {
		h := newHandler(t)

		rr := postExpense(t, h, "alice", "carol", api.NewExpense{
			Amount: decimal.NewFromInt(10), PaidBy: "alice", SplitMethod: api.Equal,
			Participants: []string{"alice", "carol"},
		})

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "stale-membership")
	})

	t.Run("Empty Selection", func(t *testing.T) {
		h := newHandler(t)

		rr := postExpense(t, h, "alice", "bob", api.NewExpense{
			Amount: decimal.NewFromInt(10), PaidBy: "alice", SplitMethod: api.Equal,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "empty-selection")
	})
}

func TestGetFriendTimeline(t *testing.T) {
	t.Run("Success From Either Side", func(t *testing.T) {
		h := newHandler(t)
		category := "travel"
		rr := postExpense(t, h, "bob", "alice", api.NewExpense{
			Amount: decimal.NewFromInt(20), PaidBy: "bob", SplitMethod: api.Equal,
			Participants: []string{"alice", "bob"}, Category: &category,
		})
		require.Equal(t, http.StatusCreated, rr.Code)

		req := asUser(httptest.NewRequest(http.MethodGet, "/friends/bob/timeline", nil), "alice")
		out := httptest.NewRecorder()
		h.GetFriendTimeline(out, req, "bob")

		require.Equal(t, http.StatusOK, out.Code)
		var tl api.Timeline
		require.NoError(t, json.Unmarshal(out.Body.Bytes(), &tl))
		require.Len(t, tl.Days, 1)
		assert.Equal(t, "bob", tl.Days[0].Entries[0].PaidBy)
		assert.Equal(t, "travel", tl.Categories[0].Category)
	})

	t.Run("Not Friends", func(t *testing.T) {
		h := newHandler(t)

		req := asUser(httptest.NewRequest(http.MethodGet, "/friends/carol/timeline", nil), "alice")
		rr := httptest.NewRecorder()
		h.GetFriendTimeline(rr, req, "carol")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListFriends(t *testing.T) {
	t.Run("Storage Error", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListFriendEntries", mock.Anything, "alice").Return(nil, assert.AnError)

		h := friends.NewFriendsHandler(nil, mockStorage)

		req := asUser(httptest.NewRequest(http.MethodGet, "/friends", nil), "alice")
		rr := httptest.NewRecorder()
		h.ListFriends(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}
