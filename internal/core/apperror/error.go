// Package apperror provides structured error handling for the allocation core.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the batch lifecycle and allocation ledger
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeStorage  = "STORAGE_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidRelease    = "INVALID_RELEASE"
	CodeInvalidTransition = "INVALID_TRANSITION"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict            = "CONFLICT"
	CodeDuplicateAllocation = "DUPLICATE_ALLOCATION"

	// Invariant breach (500) - indicates a logic bug, never user error.
	// Operations returning this code must not be retried.
	CodeLedgerCorruption = "LEDGER_CORRUPTION"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInsufficientStock creates a stock shortage error.
// Requested and available are decimal strings so clients can render
// "cannot reserve 50kg, only 30kg available" style messages.
func NewInsufficientStock(allocationID string, requested, available string) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    fmt.Sprintf("insufficient stock: requested %s, available %s", requested, available),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"allocation_id": allocationID,
			"requested":     requested,
			"available":     available,
		},
	}
}

// NewInvalidRelease is returned when a release exceeds the reserved pool.
func NewInvalidRelease(allocationID string, requested, reserved string) *AppError {
	return &AppError{
		Code:       CodeInvalidRelease,
		Message:    fmt.Sprintf("cannot release %s, only %s reserved", requested, reserved),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"allocation_id": allocationID,
			"requested":     requested,
			"reserved":      reserved,
		},
	}
}

// NewInvalidTransition creates an illegal order-status change error.
func NewInvalidTransition(orderID string, from, to string) *AppError {
	return &AppError{
		Code:       CodeInvalidTransition,
		Message:    fmt.Sprintf("cannot transition order from %s to %s", from, to),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"order_id": orderID,
			"from":     from,
			"to":       to,
		},
	}
}

// NewDuplicateAllocation is returned when a batch already has an allocation record.
func NewDuplicateAllocation(batchID string) *AppError {
	return &AppError{
		Code:       CodeDuplicateAllocation,
		Message:    "allocation record already exists for this batch",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"batch_id": batchID},
	}
}

// NewLedgerCorruption signals an invariant breach on an allocation record.
// Treated as fatal for the operation: never retried, surfaced loudly.
func NewLedgerCorruption(allocationID string, state map[string]any) *AppError {
	return &AppError{
		Code:       CodeLedgerCorruption,
		Message:    "allocation ledger invariant violated",
		HTTPStatus: http.StatusInternalServerError,
		Details: map[string]any{
			"allocation_id": allocationID,
			"record_state":  state,
		},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsLedgerCorruption checks if error is CodeLedgerCorruption
func IsLedgerCorruption(err error) bool {
	return HasCode(err, CodeLedgerCorruption)
}

// HasCode checks if error carries the given application code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
