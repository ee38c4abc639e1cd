package groups_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/expense-ledger/pkg/api"
	"github.com/chris/expense-ledger/pkg/handlers/groups"
	"github.com/chris/expense-ledger/pkg/ledger"
	"github.com/chris/expense-ledger/pkg/middleware"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
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

// newHandler returns a handler over a memory store holding group g1 {alice, bob}.
func newHandler(t *testing.T) (*groups.GroupsHandler, *memory.Store) {
	t.Helper()
	store := memory.New()
	l := ledger.New(store, nil, ledger.DefaultConfig())
	_, err := l.CreateGroup(context.Background(), ledger.GroupDraft{
		ID: "g1", Name: "Flat", CreatedBy: "alice", Members: []ledger.MemberDraft{{ID: "bob"}},
	})
	require.NoError(t, err)
	return groups.NewGroupsHandler(l, store), store
}

func TestCreateGroup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, _ := newHandler(t)

		body, _ := json.Marshal(api.NewGroup{Name: "Trip", Members: []api.NewMember{{UserId: "carol"}}})
		req := asUser(httptest.NewRequest(http.MethodPost, "/groups", bytes.NewReader(body)), "alice")
		rr := httptest.NewRecorder()

		h.CreateGroup(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var group api.Group
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &group))
		assert.NotEmpty(t, group.Id)
		assert.Equal(t, "alice", group.CreatedBy)
		require.Len(t, group.Members, 2)
		for _, m := range group.Members {
			assert.True(t, m.Balance.IsZero())
		}
	})

	t.Run("Invalid Body", func(t *testing.T) {
		h, _ := newHandler(t)

		req := asUser(httptest.NewRequest(http.MethodPost, "/groups", bytes.NewReader([]byte("{"))), "alice")
		rr := httptest.NewRecorder()

		h.CreateGroup(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Missing Name", func(t *testing.T) {
		h, _ := newHandler(t)

		body, _ := json.Marshal(api.NewGroup{Name: "  "})
		req := asUser(httptest.NewRequest(http.MethodPost, "/groups", bytes.NewReader(body)), "alice")
		rr := httptest.NewRecorder()

		h.CreateGroup(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid-draft")
	})

	t.Run("No Acting User", func(t *testing.T) {
		h, _ := newHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewReader([]byte(`{"name":"x"}`)))
		rr := httptest.NewRecorder()

		h.CreateGroup(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetGroupById(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, _ := newHandler(t)

		req := asUser(httptest.NewRequest(http.MethodGet, "/groups/g1", nil), "bob")
		rr := httptest.NewRecorder()

		h.GetGroupById(rr, req, "g1")

		assert.Equal(t, http.StatusOK, rr.Code)
		var group api.Group
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &group))
		assert.Equal(t, "Flat", group.Name)
	})

	t.Run("Not A Member", func(t *testing.T) {
		h, _ := newHandler(t)

		req := asUser(httptest.NewRequest(http.MethodGet, "/groups/g1", nil), "mallory")
		rr := httptest.NewRecorder()

		h.GetGroupById(rr, req, "g1")

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		h, _ := newHandler(t)

		req := asUser(httptest.NewRequest(http.MethodGet, "/groups/nope", nil), "alice")
		rr := httptest.NewRecorder()

		h.GetGroupById(rr, req, "nope")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetGroup", mock.Anything, "g1").Return(nil, fmt.Errorf("balance %q: %w", "x", storage.ErrMalformedRecord))

		h := groups.NewGroupsHandler(nil, mockStorage)

		req := asUser(httptest.NewRequest(http.MethodGet, "/groups/g1", nil), "alice")
		rr := httptest.NewRecorder()

		h.GetGroupById(rr, req, "g1")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}

func TestCreateGroupExpense(t *testing.T) {
	dinner := api.NewExpense{
		Description:  "Dinner",
		Amount:       decimal.RequireFromString("30"),
		PaidBy:       "alice",
		SplitMethod:  api.Equal,
		Participants: []string{"alice", "bob"},
	}

	t.Run("Success", func(t *testing.T) {
		h, store := newHandler(t)

		body, _ := json.Marshal(dinner)
		req := asUser(httptest.NewRequest(http.MethodPost, "/groups/g1/expenses", bytes.NewReader(body)), "bob")
		rr := httptest.NewRecorder()

		h.CreateGroupExpense(rr, req, "g1")

		require.Equal(t, http.StatusCreated, rr.Code)
		var result api.CommitResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, "15.00", result.Balances["alice"].StringFixed(2))
		assert.Equal(t, "-15.00", result.Balances["bob"].StringFixed(2))

		expense, err := store.GetExpense(context.Background(), result.ExpenseId.String())
		require.NoError(t, err)
		assert.Equal(t, "bob", expense.CreatedBy)
		assert.Equal(t, "g1", expense.GroupID)
	})

	t.Run("Percentage Mismatch", func(t *testing.T) {
		h, _ := newHandler(t)
		sixty, thirty := decimal.NewFromInt(60), decimal.NewFromInt(30)
		bad := dinner
		bad.SplitMethod = api.Percentage
		bad.Splits = []api.SplitInput{{UserId: "alice", Percentage: &sixty}, {UserId: "bob", Percentage: &thirty}}

		body, _ := json.Marshal(bad)
		req := asUser(httptest.NewRequest(http.MethodPost, "/groups/g1/expenses", bytes.NewReader(body)), "alice")
		rr := httptest.NewRecorder()

		h.CreateGroupExpense(rr, req, "g1")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		var errBody api.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errBody))
		assert.Equal(t, "percentage-mismatch", errBody.Error.Code)
	})

	t.Run("Stale Membership", func(t *testing.T) {
		h, store := newHandler(t)
		store.RemoveMember("g1", "bob")

		body, _ := json.Marshal(dinner)
		req := asUser(httptest.NewRequest(http.MethodPost, "/groups/g1/expenses", bytes.NewReader(body)), "alice")
		rr := httptest.NewRecorder()

		h.CreateGroupExpense(rr, req, "g1")

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "stale-membership")
		log, err := store.ListTransactionLog(context.Background(), models.GroupContextKey("g1"))
		require.NoError(t, err)
		assert.Empty(t, log)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		group := &models.Group{ID: "g1", Members: []models.Member{{GroupID: "g1", ID: "alice"}, {GroupID: "g1", ID: "bob"}}}
		mockStorage.On("GetMember", mock.Anything, "g1", "alice").Return(&group.Members[0], nil)
		mockStorage.On("GetGroup", mock.Anything, "g1").Return(group, nil)
		mockStorage.On("CommitGroupExpense", mock.Anything, mock.Anything).Return(storage.ErrConflict)

		cfg := ledger.DefaultConfig()
		cfg.RetryBackoff = 0
		h := groups.NewGroupsHandler(ledger.New(mockStorage, nil, cfg), mockStorage)

		body, _ := json.Marshal(dinner)
		req := asUser(httptest.NewRequest(http.MethodPost, "/groups/g1/expenses", bytes.NewReader(body)), "alice")
		rr := httptest.NewRecorder()

		h.CreateGroupExpense(rr, req, "g1")

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), "please try again")
		mockStorage.AssertNumberOfCalls(t, "CommitGroupExpense", cfg.MaxAttempts)
	})

	t.Run("Not A Member", func(t *testing.T) {
		h, _ := newHandler(t)

		body, _ := json.Marshal(dinner)
		req := asUser(httptest.NewRequest(http.MethodPost, "/groups/g1/expenses", bytes.NewReader(body)), "mallory")
		rr := httptest.NewRecorder()

		h.CreateGroupExpense(rr, req, "g1")

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestGetGroupTimeline(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, _ := newHandler(t)
		for _, amount := range []string{"30", "12.50"} {
			body, _ := json.Marshal(api.NewExpense{
				Amount: decimal.RequireFromString(amount), PaidBy: "alice", SplitMethod: api.Equal,
				Participants: []string{"alice", "bob"},
			})
			rr := httptest.NewRecorder()
			h.CreateGroupExpense(rr, asUser(httptest.NewRequest(http.MethodPost, "/groups/g1/expenses", bytes.NewReader(body)), "alice"), "g1")
			require.Equal(t, http.StatusCreated, rr.Code)
		}

		req := asUser(httptest.NewRequest(http.MethodGet, "/groups/g1/timeline", nil), "bob")
		rr := httptest.NewRecorder()

		h.GetGroupTimeline(rr, req, "g1")

		assert.Equal(t, http.StatusOK, rr.Code)
		var tl api.Timeline
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tl))
		require.Len(t, tl.Days, 1)
		assert.Len(t, tl.Days[0].Entries, 2)
		assert.Equal(t, "42.50", tl.Total.StringFixed(2))
		require.Len(t, tl.Categories, 1)
		assert.Equal(t, "100.00", tl.Categories[0].Percentage.StringFixed(2))
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetMember", mock.Anything, "g1", "alice").Return(&models.Member{ID: "alice"}, nil)
		mockStorage.On("ListTransactionLog", mock.Anything, models.GroupContextKey("g1")).Return(nil, assert.AnError)

		h := groups.NewGroupsHandler(nil, mockStorage)

		req := asUser(httptest.NewRequest(http.MethodGet, "/groups/g1/timeline", nil), "alice")
		rr := httptest.NewRecorder()

		h.GetGroupTimeline(rr, req, "g1")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}
