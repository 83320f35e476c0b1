package service

import (
	"errors"
	"strings"
	"time"

	"github.com/stmary/warehouse/internal/core/domain"
)

// wrap turns a storage failure into a ServiceError while letting domain
// errors pass through untouched, so callers can still match them.
func wrap(op string, err error) error {
	if domain.IsValidation(err) || domain.IsDuplicate(err) || domain.IsTransition(err) ||
		errors.Is(err, domain.ErrInsufficientStock) {
		return err
	}
	var se *domain.ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &domain.ServiceError{Op: op, Reason: "storage failure", Cause: err}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func validateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return &domain.ValidationError{Field: "date range", Reason: "start and end dates are required"}
	}
	if start.After(end) {
		return &domain.ValidationError{Field: "date range", Reason: "start date cannot be after end date"}
	}
	return nil
}

func validateRecentParams(days, limit int) error {
	if days < 0 {
		return &domain.ValidationError{Field: "days", Reason: "must be non-negative"}
	}
	if limit < 0 {
		return &domain.ValidationError{Field: "limit", Reason: "must be non-negative"}
	}
	return nil
}
