package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Create a group with the acting user as admin
	// (POST /groups)
	CreateGroup(w http.ResponseWriter, r *http.Request)
	// Get a group with its member balances
	// (GET /groups/{groupId})
	GetGroupById(w http.ResponseWriter, r *http.Request, groupId string)
	// Record a group expense
	// (POST /groups/{groupId}/expenses)
	CreateGroupExpense(w http.ResponseWriter, r *http.Request, groupId string)
	// Group timeline by date and category
	// (GET /groups/{groupId}/timeline)
	GetGroupTimeline(w http.ResponseWriter, r *http.Request, groupId string)
	// List the acting user's friends
	// (GET /friends)
	ListFriends(w http.ResponseWriter, r *http.Request)
	// Befriend another user
	// (POST /friends)
	CreateFriend(w http.ResponseWriter, r *http.Request)
	// Record an expense with a friend
	// (POST /friends/{friendId}/expenses)
	CreateFriendExpense(w http.ResponseWriter, r *http.Request, friendId string)
	// Friend pair timeline by date and category
	// (GET /friends/{friendId}/timeline)
	GetFriendTimeline(w http.ResponseWriter, r *http.Request, friendId string)
	// Get an expense
	// (GET /expenses/{expenseId})
	GetExpenseById(w http.ResponseWriter, r *http.Request, expenseId openapi_types.UUID)
	// Net position of a user across groups and friends
	// (GET /users/{userId}/balance)
	GetUserBalance(w http.ResponseWriter, r *http.Request, userId string)
}

// ServerInterfaceWrapper converts path parameters and calls the handler.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	handler := http.Handler(fn)
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindPath(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

// CreateGroup operation middleware
func (siw *ServerInterfaceWrapper) CreateGroup(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreateGroup)
}

// GetGroupById operation middleware
func (siw *ServerInterfaceWrapper) GetGroupById(w http.ResponseWriter, r *http.Request) {
	var groupId string
	if !siw.bindPath(w, r, "groupId", &groupId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetGroupById(w, r, groupId)
	})
}

// CreateGroupExpense operation middleware
func (siw *ServerInterfaceWrapper) CreateGroupExpense(w http.ResponseWriter, r *http.Request) {
	var groupId string
	if !siw.bindPath(w, r, "groupId", &groupId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CreateGroupExpense(w, r, groupId)
	})
}

// GetGroupTimeline operation middleware
func (siw *ServerInterfaceWrapper) GetGroupTimeline(w http.ResponseWriter, r *http.Request) {
	var groupId string
	if !siw.bindPath(w, r, "groupId", &groupId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetGroupTimeline(w, r, groupId)
	})
}

// ListFriends operation middleware
func (siw *ServerInterfaceWrapper) ListFriends(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.ListFriends)
}

// CreateFriend operation middleware
func (siw *ServerInterfaceWrapper) CreateFriend(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreateFriend)
}

// CreateFriendExpense operation middleware
func (siw *ServerInterfaceWrapper) CreateFriendExpense(w http.ResponseWriter, r *http.Request) {
	var friendId string
	if !siw.bindPath(w, r, "friendId", &friendId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CreateFriendExpense(w, r, friendId)
	})
}

// GetFriendTimeline operation middleware
func (siw *ServerInterfaceWrapper) GetFriendTimeline(w http.ResponseWriter, r *http.Request) {
	var friendId string
	if !siw.bindPath(w, r, "friendId", &friendId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetFriendTimeline(w, r, friendId)
	})
}

// GetExpenseById operation middleware
func (siw *ServerInterfaceWrapper) GetExpenseById(w http.ResponseWriter, r *http.Request) {
	var expenseId openapi_types.UUID
	if !siw.bindPath(w, r, "expenseId", &expenseId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetExpenseById(w, r, expenseId)
	})
}

// GetUserBalance operation middleware
func (siw *ServerInterfaceWrapper) GetUserBalance(w http.ResponseWriter, r *http.Request) {
	var userId string
	if !siw.bindPath(w, r, "userId", &userId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetUserBalance(w, r, userId)
	})
}

// InvalidParamFormatError is passed to the ErrorHandlerFunc when a path parameter
// cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ChiServerOptions configures the generated routes.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching the API, on top of r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/groups", wrapper.CreateGroup)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/groups/{groupId}", wrapper.GetGroupById)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/groups/{groupId}/expenses", wrapper.CreateGroupExpense)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/groups/{groupId}/timeline", wrapper.GetGroupTimeline)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/friends", wrapper.ListFriends)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/friends", wrapper.CreateFriend)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/friends/{friendId}/expenses", wrapper.CreateFriendExpense)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/friends/{friendId}/timeline", wrapper.GetFriendTimeline)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/expenses/{expenseId}", wrapper.GetExpenseById)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/users/{userId}/balance", wrapper.GetUserBalance)
	})

	return r
}
