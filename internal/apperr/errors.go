// Package apperr defines the error taxonomy shared by engines and handlers.
// Services wrap failures in one of these kinds; handlers map kinds to HTTP
// statuses with errors.Is / errors.As and never leak driver errors.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	// ErrValidation marks malformed or missing input. Recoverable by resubmission.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced order/sale/book that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation attempted from a state that forbids it.
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientStock marks a requested quantity exceeding available stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrPersistence marks an underlying storage failure; the whole transaction
	// was rolled back.
	ErrPersistence = errors.New("storage failure")
)

// ValidationError reports which field failed and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvalidStateError reports the current state alongside the refused operation.
type InvalidStateError struct {
	Entity    string
	ID        uint
	Current   string
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %d: cannot %s from state %s", e.Entity, e.ID, e.Operation, e.Current)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

func InvalidState(entity string, id uint, current, operation string) error {
	return &InvalidStateError{Entity: entity, ID: id, Current: current, Operation: operation}
}

// InsufficientStockError reports the book and the shortfall, so the caller
// can tell which line of a multi-item request failed.
type InsufficientStockError struct {
	BookID    uint
	BookName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %q (id %d): available %d, requested %d",
		e.BookName, e.BookID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func (e *InsufficientStockError) Shortfall() int { return e.Requested - e.Available }

// PersistenceError wraps an unexpected driver error so callers see a stable
// kind instead of implementation detail. The cause stays available for logs.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage failure: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }

func Persistence(cause error) error {
	if cause == nil {
		return nil
	}
	return &PersistenceError{Cause: cause}
}
