// Package errors provides custom error types for the DealScout API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrRoleNotAssignable  = &AppError{Code: "ROLE_NOT_SELF_ASSIGNABLE", Message: "This role can only be granted by an administrator", StatusCode: http.StatusForbidden}
)

// Pipeline errors.
var (
	ErrPipelineNotConfigured = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
	ErrInvalidAPIKey         = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Property errors.
var (
	ErrPropertyNotFound      = &AppError{Code: "PROPERTY_NOT_FOUND", Message: "Property not found", StatusCode: http.StatusNotFound}
	ErrPropertyNotReviewable = &AppError{Code: "PROPERTY_NOT_REVIEWABLE", Message: "Only properties pending review can be reviewed", StatusCode: http.StatusConflict}
)

// Saved property & saved search errors.
var (
	ErrPropertyAlreadySaved  = &AppError{Code: "PROPERTY_ALREADY_SAVED", Message: "Property is already saved", StatusCode: http.StatusConflict}
	ErrSavedPropertyNotFound = &AppError{Code: "SAVED_PROPERTY_NOT_FOUND", Message: "Saved property not found", StatusCode: http.StatusNotFound}
	ErrSavedSearchNotFound   = &AppError{Code: "SAVED_SEARCH_NOT_FOUND", Message: "Saved search not found", StatusCode: http.StatusNotFound}
)

// Analysis settings errors.
var (
	ErrInvalidStrategy      = &AppError{Code: "INVALID_STRATEGY", Message: "Unsupported investment strategy", StatusCode: http.StatusBadRequest}
	ErrInvalidPurchaseModel = &AppError{Code: "INVALID_PURCHASE_MODEL", Message: "Unsupported purchase model", StatusCode: http.StatusBadRequest}
	ErrUnknownCostCategory  = &AppError{Code: "UNKNOWN_COST_CATEGORY", Message: "Cost category does not apply to this strategy", StatusCode: http.StatusBadRequest}
)
