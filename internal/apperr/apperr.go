// Package apperr defines the error taxonomy the HTTP layer branches on.
// Authentication failures carry an internal reason that is logged but never
// sent to the client; everything else maps to a stable status code.
package apperr

import (
	"errors"
	"fmt"
)

// AuthReason is the internal cause of a token rejection. Callers must only
// branch on allow vs deny; the reason exists for logging.
type AuthReason string

const (
	ReasonExpired           AuthReason = "expired"
	ReasonInvalid           AuthReason = "invalid"
	ReasonInvalidType       AuthReason = "invalid_type"
	ReasonNotFound          AuthReason = "not_found"
	ReasonSuperseded        AuthReason = "superseded"
	ReasonAlreadyCompleted  AuthReason = "already_completed"
	ReasonInterviewNotFound AuthReason = "interview_not_found"
)

// ErrUnauthorized is the umbrella all AuthError values match via errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// AuthError is a token rejection with an internal reason.
type AuthError struct {
	Reason AuthReason
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token rejected: %s", e.Reason)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// Rejected builds an AuthError for the given reason.
func Rejected(reason AuthReason) error {
	return &AuthError{Reason: reason}
}

var (
	// ErrValidation marks caller-fixable input problems.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks expected concurrent-use cases (submit twice, archived
	// or expired interview, force required).
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks a missing or inaccessible resource.
	ErrNotFound = errors.New("not found")
	// ErrSelectionImpossible marks a question blueprint that cannot be
	// satisfied. Interview creation must abort entirely on this.
	ErrSelectionImpossible = errors.New("question blueprint cannot be satisfied")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func SelectionImpossiblef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSelectionImpossible, fmt.Sprintf(format, args...))
}
