package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by store and service functions when the requested
// resource (or persisted document) does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty roster field, negative kilometre reading).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrPrecondition is returned when an operation is invoked in a lifecycle
// state that does not permit it. Handlers should map this to HTTP 409.
var ErrPrecondition = errors.New("precondition violation")

// ErrTripInProgress is returned by Lifecycle.Open when a trip is already
// active. Matches errors.Is(err, ErrPrecondition).
var ErrTripInProgress = &preconditionError{msg: "a trip is already in progress"}

// ErrNoActiveTrip is returned by Lifecycle.Close when no trip is active.
var ErrNoActiveTrip = &preconditionError{msg: "no active trip"}

// ErrTripMismatch is returned by Lifecycle.Close when the submitted trip id
// does not match the active trip.
var ErrTripMismatch = &preconditionError{msg: "trip id does not match the active trip"}

// preconditionError is a sentinel that is matchable on its own and also
// satisfies errors.Is(err, ErrPrecondition), so handlers can map the whole
// family to one status code.
type preconditionError struct {
	msg string
}

func (e *preconditionError) Error() string { return "precondition violation: " + e.msg }

func (e *preconditionError) Is(target error) bool { return target == ErrPrecondition }

// Message returns the human-readable part without the sentinel prefix.
// Handlers use it for response bodies.
func (e *preconditionError) Message() string { return e.msg }

// Validationf builds a validation error with a human-readable message.
// The result matches errors.Is(err, ErrValidation) and exposes the message
// via a Message() string method, so handlers never parse Error() output.
func Validationf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return "validation error: " + e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

func (e *validationError) Message() string { return e.msg }
