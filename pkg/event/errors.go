package event

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("event not found")
	ErrInvalidPayload = errors.New("invalid event payload")
)

// NotFoundError is returned by Read, Update and Delete for an absent ID.
// Deleted and never-created IDs are indistinguishable.
type NotFoundError struct {
	ID uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("an event with id=%d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports a payload field that violates its bound
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPayload
}
