package split

import "fmt"

// Reason is the machine-checkable code carried by a ValidationError.
type Reason string

const (
	ReasonEmptySelection       Reason = "empty-selection"
	ReasonNonPositiveTotal     Reason = "non-positive-total"
	ReasonPercentageMismatch   Reason = "percentage-mismatch"
	ReasonAmountMismatch       Reason = "amount-mismatch"
	ReasonInvalidShares        Reason = "invalid-shares"
	ReasonUnknownMethod        Reason = "unknown-method"
	ReasonDuplicateParticipant Reason = "duplicate-participant"
	ReasonUnknownParticipant   Reason = "unknown-participant"
)

// ValidationError is returned when a split request cannot be turned into allocations.
type ValidationError struct {
	Reason Reason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// Is matches any ValidationError with the same reason, so callers can use errors.Is
// against the sentinels below.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

var (
	ErrEmptySelection       = &ValidationError{Reason: ReasonEmptySelection}
	ErrNonPositiveTotal     = &ValidationError{Reason: ReasonNonPositiveTotal}
	ErrPercentageMismatch   = &ValidationError{Reason: ReasonPercentageMismatch}
	ErrAmountMismatch       = &ValidationError{Reason: ReasonAmountMismatch}
	ErrInvalidShares        = &ValidationError{Reason: ReasonInvalidShares}
	ErrUnknownMethod        = &ValidationError{Reason: ReasonUnknownMethod}
	ErrDuplicateParticipant = &ValidationError{Reason: ReasonDuplicateParticipant}
	ErrUnknownParticipant   = &ValidationError{Reason: ReasonUnknownParticipant}
)

func invalid(reason Reason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
