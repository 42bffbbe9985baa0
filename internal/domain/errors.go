package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeUnavailable   = "STORAGE_UNAVAILABLE"
)

var (
	ErrTermNotFound     = NewDomainError(ErrCodeNotFound, "learned term not found")
	ErrMissingUserID    = NewDomainError(ErrCodeValidation, "user id is required")
	ErrNegativeAmount   = NewDomainError(ErrCodeValidation, "amount must not be negative")
	ErrAmountTooLarge   = NewDomainError(ErrCodeValidation, "amount exceeds the monthly ceiling")
	ErrInvalidAdminKey  = NewDomainError(ErrCodeUnauthorized, "invalid admin key")
	ErrStorageExhausted = NewDomainError(ErrCodeUnavailable, "storage operation failed after retries")
)
