package service

import (
	"errors"
	"fmt"

	"salimco/pos/internal/domain"
)

var (
	ErrInvalidCredentials = &AuthError{Message: "Invalid username or password"}
	ErrAccessDenied       = &AuthError{Message: "Access denied"}
)

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

type DuplicateNameError struct {
	Category domain.Category
	Name     string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s '%s' already exists", e.Category.Title(), e.Name)
}

type InsufficientStockError struct {
	Category  domain.Category
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	switch e.Category {
	case domain.CategoryOil:
		return fmt.Sprintf("Only %d oil in stock", e.Available)
	case domain.CategoryWheel:
		return fmt.Sprintf("Only %d wheel in stock", e.Available)
	default:
		return fmt.Sprintf("Only %d available in stock", e.Available)
	}
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ReportGenerationError wraps any failure while building or writing a report.
type ReportGenerationError struct {
	Report string
	Err    error
}

func (e *ReportGenerationError) Error() string {
	return fmt.Sprintf("Error generating %s report: %v", e.Report, e.Err)
}

func (e *ReportGenerationError) Unwrap() error { return e.Err }

// IsUserFacing reports whether err carries a message meant for the till.
func IsUserFacing(err error) bool {
	var (
		authErr  *AuthError
		dupErr   *DuplicateNameError
		stockErr *InsufficientStockError
		valErr   *ValidationError
		repErr   *ReportGenerationError
	)
	return errors.As(err, &authErr) || errors.As(err, &dupErr) || errors.As(err, &stockErr) ||
		errors.As(err, &valErr) || errors.As(err, &repErr)
}
