package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ConsistencyError signals that a ledger invariant was already broken
// before the current operation ran. It is an internal defect, never a
// user error, and must not be explained to the caller in domain terms.
type ConsistencyError struct {
	Detail string
}

func (e ConsistencyError) Error() string {
	if e.Detail == "" {
		return "consistency fault"
	}
	return fmt.Sprintf("consistency fault: %s", e.Detail)
}

// Is enables errors.Is matching on ConsistencyError.
func (e ConsistencyError) Is(target error) bool {
	_, ok := target.(ConsistencyError)
	if ok {
		return true
	}
	_, ok = target.(*ConsistencyError)
	return ok
}

// ErrConsistency is the sentinel error for detected invariant violations.
var ErrConsistency = ConsistencyError{}

// ErrEventFull is returned when an event has no remaining capacity.
var ErrEventFull = errors.New("event is full")

// ErrAlreadyRegistered is returned when a user registers twice for the
// same event.
var ErrAlreadyRegistered = errors.New("already registered for this event")

// ErrForbidden is returned when the requester lacks permission.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned on missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidInput is returned on user-correctable validation failures.
// Wrap it with context: fmt.Errorf("%w: title is required", ErrInvalidInput).
var ErrInvalidInput = errors.New("invalid input")

// ErrDuplicate is returned when a unique constraint is violated
// (category name, user email).
var ErrDuplicate = errors.New("already exists")
