package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MaxTextLen bounds every free-text column.
const MaxTextLen = 255

// ErrInsufficientStock is returned when a stock removal exceeds the
// quantity currently on hand.
var ErrInsufficientStock = errors.New("insufficient stock available")

// ValidationError reports input rejected before any storage access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// DuplicateError reports a uniqueness violation, mapped directly from the
// storage layer's UNIQUE constraint.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("item name already exists: %s", e.Name)
}

func (e *DuplicateError) Is(target error) bool {
	_, ok := target.(*DuplicateError)
	return ok
}

// TransitionError reports a status change not present in the transition table.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	_, ok := target.(*TransitionError)
	return ok
}

// ServiceError reports a business-rule violation or a wrapped storage failure.
type ServiceError struct {
	Op     string
	Reason string
	Cause  error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func (e *ServiceError) Is(target error) bool {
	_, ok := target.(*ServiceError)
	return ok
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsDuplicate(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}

func IsTransition(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

// RootCause walks the wrap chain and returns the innermost message. Front
// ends render this instead of the full chain.
func RootCause(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func requireText(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return &ValidationError{Field: field, Reason: "cannot be empty"}
	}
	if len(trimmed) > MaxTextLen {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("cannot exceed %d characters", MaxTextLen)}
	}
	return nil
}
