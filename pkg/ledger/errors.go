package ledger

import "fmt"

// Code is the machine-checkable tag carried by a ledger Error.
type Code string

const (
	// CodeStaleMembership: a referenced participant is no longer part of the group or pair.
	CodeStaleMembership Code = "stale-membership"
	// CodeConcurrentUpdateConflict: every commit attempt lost an optimistic-concurrency race.
	CodeConcurrentUpdateConflict Code = "concurrent-update-conflict"
	// CodeInvariantViolation: the computed writes would break a ledger invariant. Nothing was written.
	CodeInvariantViolation Code = "invariant-violation"
	// CodeInvalidDraft: the draft is missing its context, payer or creator.
	CodeInvalidDraft Code = "invalid-draft"
	// CodeCommitTimeout: the commit did not resolve in time and was not applied.
	CodeCommitTimeout Code = "commit-timeout"
)

// Error is a tagged ledger failure.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrStaleMembership          = &Error{Code: CodeStaleMembership}
	ErrConcurrentUpdateConflict = &Error{Code: CodeConcurrentUpdateConflict}
	ErrInvariantViolation       = &Error{Code: CodeInvariantViolation}
	ErrInvalidDraft             = &Error{Code: CodeInvalidDraft}
	ErrCommitTimeout            = &Error{Code: CodeCommitTimeout}
)

func newError(code Code, err error, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}
