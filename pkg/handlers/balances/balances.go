package balances

import (
	"context"
	"net/http"

	"github.com/chris/expense-ledger/pkg/aggregator"
	"github.com/chris/expense-ledger/pkg/mapping"
	"github.com/chris/expense-ledger/pkg/middleware"
	"github.com/chris/expense-ledger/pkg/response"
)

// Summarizer computes a user's net position.
type Summarizer interface {
	Summary(ctx context.Context, userID string) (*aggregator.Summary, error)
}

// BalancesHandler holds the dependencies for balance-related handlers.
type BalancesHandler struct {
	Aggregator Summarizer
}

// NewBalancesHandler creates a new BalancesHandler.
func NewBalancesHandler(agg Summarizer) *BalancesHandler {
	return &BalancesHandler{Aggregator: agg}
}

// GetUserBalance returns the user's net position across every group and friend.
// Users can only read their own.
func (h *BalancesHandler) GetUserBalance(w http.ResponseWriter, r *http.Request, userId string) {
	actingUser, ok := middleware.ActingUser(w, r)
	if !ok {
		return
	}
	if actingUser != userId {
		response.Forbidden(w, "can only read your own balance")
		return
	}

	summary, err := h.Aggregator.Summary(r.Context(), userId)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, mapping.ToApiBalanceSummary(summary))
}
