// Package domain defines the core domain models for Stallgate.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured code.
//
// The code families map onto the error taxonomy exposed at the API
// boundary: SG-AUTH (authentication), SG-USER / SG-ITEM / SG-CART /
// SG-PUR (per-resource not-found and validation), SG-SYS (system).
type DomainError struct {
	Code    string // Error code (e.g., "SG-ITEM-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support; two domain errors match on code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: details, Cause: e.Cause}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: e.Details, Cause: cause}
}

// IsDomainError checks whether err is a DomainError with the given code.
// An empty code matches any DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return code == "" || de.Code == code
	}
	return false
}

// ErrorCode extracts the code from a DomainError, or "" for other errors.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Authentication errors (AUTH).
var (
	// ErrSessionMissing indicates no session token was provided.
	ErrSessionMissing = NewDomainError("SG-AUTH-4010", "session token not provided")

	// ErrSessionInvalid indicates the session token is unknown.
	ErrSessionInvalid = NewDomainError("SG-AUTH-4011", "invalid session token")

	// ErrSessionExpired indicates the session idled past its window.
	ErrSessionExpired = NewDomainError("SG-AUTH-4012", "session expired")

	// ErrBadCredentials indicates an unknown username or wrong password.
	ErrBadCredentials = NewDomainError("SG-AUTH-4013", "invalid username or password")

	// ErrRoleMismatch indicates the account role does not match the
	// front end used to log in.
	ErrRoleMismatch = NewDomainError("SG-AUTH-4030", "account role not valid for this service")
)

// User errors (USER).
var (
	// ErrUserNotFound indicates the requested user was not found.
	ErrUserNotFound = NewDomainError("SG-USER-4040", "user not found")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = NewDomainError("SG-USER-4090", "username already exists")

	// ErrUserValidation indicates account field validation failed.
	ErrUserValidation = NewDomainError("SG-USER-4001", "user validation failed")
)

// Item errors (ITEM).
var (
	// ErrItemNotFound indicates the item key does not exist.
	ErrItemNotFound = NewDomainError("SG-ITEM-4040", "item not found")

	// ErrItemValidation indicates item field validation failed.
	ErrItemValidation = NewDomainError("SG-ITEM-4001", "item validation failed")

	// ErrInsufficientStock indicates a purchase asked for more units
	// than are available.
	ErrInsufficientStock = NewDomainError("SG-ITEM-4091", "not enough stock")

	// ErrBadItemKey indicates a malformed item key.
	ErrBadItemKey = NewDomainError("SG-ITEM-4000", "malformed item key")
)

// Cart errors (CART).
var (
	// ErrCartValidation indicates cart entry validation failed.
	ErrCartValidation = NewDomainError("SG-CART-4001", "cart validation failed")
)

// Purchase errors (PUR).
var (
	// ErrPaymentDeclined indicates the payment approver rejected the card.
	ErrPaymentDeclined = NewDomainError("SG-PUR-4020", "payment declined")

	// ErrPurchaseValidation indicates purchase field validation failed.
	ErrPurchaseValidation = NewDomainError("SG-PUR-4001", "purchase validation failed")
)

// System errors (SYS).
var (
	// ErrInternal indicates an internal server error.
	ErrInternal = NewDomainError("SG-SYS-5000", "internal server error")

	// ErrStorage indicates a storage layer error.
	ErrStorage = NewDomainError("SG-SYS-5001", "storage error")

	// ErrUpstreamUnavailable indicates a dependent store or service
	// could not be reached.
	ErrUpstreamUnavailable = NewDomainError("SG-SYS-5030", "upstream service unavailable")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("SG-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("SG-SYS-4290", "too many requests")
)
