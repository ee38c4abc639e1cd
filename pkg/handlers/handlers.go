package handlers

import (
	"net/http"

	"github.com/chris/expense-ledger/pkg/aggregator"
	"github.com/chris/expense-ledger/pkg/api"
	"github.com/chris/expense-ledger/pkg/handlers/balances"
	"github.com/chris/expense-ledger/pkg/handlers/expenses"
	"github.com/chris/expense-ledger/pkg/handlers/friends"
	"github.com/chris/expense-ledger/pkg/handlers/groups"
	"github.com/chris/expense-ledger/pkg/ledger"
	"github.com/chris/expense-ledger/pkg/response"
	"github.com/chris/expense-ledger/pkg/storage"
)

// ApiHandler implements the generated server interface by composing the
// per-resource handlers.
type ApiHandler struct {
	*groups.GroupsHandler
	*friends.FriendsHandler
	*expenses.ExpensesHandler
	*balances.BalancesHandler
}

// NewApiHandler wires every resource handler to the ledger, the aggregator and the store.
func NewApiHandler(l *ledger.Ledger, agg *aggregator.Aggregator, store storage.Storage) *ApiHandler {
	return &ApiHandler{
		GroupsHandler:   groups.NewGroupsHandler(l, store),
		FriendsHandler:  friends.NewFriendsHandler(l, store),
		ExpensesHandler: expenses.NewExpensesHandler(store),
		BalancesHandler: balances.NewBalancesHandler(agg),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// Healthz reports that the process is serving.
func Healthz(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// InvalidParam renders path parameter binding failures in the error envelope.
func InvalidParam(w http.ResponseWriter, r *http.Request, err error) {
	response.BadRequest(w, err.Error())
}
