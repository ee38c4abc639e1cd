package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chris/expense-ledger/pkg/api"
	"github.com/chris/expense-ledger/pkg/ledger"
	"github.com/chris/expense-ledger/pkg/split"
	"github.com/chris/expense-ledger/pkg/storage"
)

const (
	CodeBadRequest   = "bad-request"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not-found"
	CodeConflict     = "already-exists"
	CodeInternal     = "internal-error"
)

// JSON sends data as a JSON body with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error sends the error envelope.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, api.ErrorResponse{Error: api.Error{Code: code, Message: message}})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, CodeBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, CodeForbidden, message)
}

// FromError maps a domain or storage error to its status code and envelope.
// Anything unrecognised is a 500 whose detail is logged but not returned.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := Classify(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", code,
			"error", err)
	}
	Error(w, status, code, message)
}

// Classify returns the status, error code and client message for err.
func Classify(err error) (int, string, string) {
	var validation *split.ValidationError
	if errors.As(err, &validation) {
		return http.StatusUnprocessableEntity, string(validation.Reason), validation.Error()
	}

	var ledgerErr *ledger.Error
	if errors.As(err, &ledgerErr) {
		switch ledgerErr.Code {
		case ledger.CodeInvalidDraft:
			return http.StatusUnprocessableEntity, string(ledgerErr.Code), ledgerErr.Message
		case ledger.CodeStaleMembership:
			return http.StatusConflict, string(ledgerErr.Code), ledgerErr.Message
		case ledger.CodeConcurrentUpdateConflict, ledger.CodeCommitTimeout:
			return http.StatusServiceUnavailable, string(ledgerErr.Code), "the balances changed while saving, please try again"
		case ledger.CodeInvariantViolation:
			return http.StatusInternalServerError, string(ledgerErr.Code), "the expense was not recorded"
		}
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, "resource not found"
	case errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict, CodeConflict, "resource already exists"
	}
	return http.StatusInternalServerError, CodeInternal, "internal server error"
}
