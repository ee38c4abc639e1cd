package expenses

import (
	"errors"
	"net/http"

	"github.com/chris/expense-ledger/pkg/mapping"
	"github.com/chris/expense-ledger/pkg/middleware"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/response"
	"github.com/chris/expense-ledger/pkg/storage"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Store is the read side the expense handlers need.
type Store interface {
	storage.ExpenseReader
	storage.GroupReader
}

// ExpensesHandler holds the dependencies for expense-related handlers.
type ExpensesHandler struct {
	Store Store
}

// NewExpensesHandler creates a new ExpensesHandler.
func NewExpensesHandler(store Store) *ExpensesHandler {
	return &ExpensesHandler{Store: store}
}

// GetExpenseById returns an expense to the users it concerns: the group's members, or
// the two parties of a friend expense.
func (h *ExpensesHandler) GetExpenseById(w http.ResponseWriter, r *http.Request, expenseId openapi_types.UUID) {
	userID, ok := middleware.ActingUser(w, r)
	if !ok {
		return
	}

	expense, err := h.Store.GetExpense(r.Context(), expenseId.String())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	allowed, err := h.canRead(r, expense, userID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if !allowed {
		response.Forbidden(w, "not a party to this expense")
		return
	}

	response.JSON(w, http.StatusOK, mapping.ToApiExpense(expense))
}

func (h *ExpensesHandler) canRead(r *http.Request, expense *models.Expense, userID string) (bool, error) {
	if expense.GroupID == "" {
		return userID == expense.CreatedBy || userID == expense.FriendID, nil
	}
	_, err := h.Store.GetMember(r.Context(), expense.GroupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
