package errors

import (
	"fmt"
	"maps"
	"net/http"
)

// AppError is the error every layer returns to the HTTP boundary. Cause is
// logged, never sent.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	maps.Copy(e.Details, details)
	return e
}

// Provider returns details["provider"], set on every provider error.
func (e *AppError) Provider() string {
	p, _ := e.Details["provider"].(string)
	return p
}

// New creates an error whose Retryable flag follows IsRetryableCode.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Retryable: IsRetryableCode(code)}
}

// ProviderUnconfigured is raised before any network call when provider has
// no credential.
func ProviderUnconfigured(provider string) *AppError {
	return New(ErrCodeProviderUnconfigured,
		fmt.Sprintf("The %s provider is not configured.", provider),
		http.StatusServiceUnavailable,
	).WithDetail("provider", provider)
}

// ProviderCallFailed reports a non-2xx answer from provider, or a transport
// failure when status is 0. The upstream body is kept for the logs.
func ProviderCallFailed(provider string, status int, body string) *AppError {
	msg := "The %s provider request failed. Please try again or choose another provider."
	if status == 0 {
		msg = "The %s provider is unavailable. Please try again or choose another provider."
	}
	e := New(ErrCodeProviderCallFailed, fmt.Sprintf(msg, provider), http.StatusUnprocessableEntity).
		WithDetail("provider", provider)
	if status > 0 {
		e.WithDetail("status", status)
	}
	if body != "" {
		e.WithDetail("body", body)
	}
	return e
}

func UsageLimitExceeded() *AppError {
	return New(ErrCodeUsageLimitExceeded, "Monthly usage limit reached. Please upgrade your plan.", http.StatusTooManyRequests)
}

func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please slow down.", http.StatusTooManyRequests)
}

func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The request took too long. Please try again.", http.StatusGatewayTimeout).
		WithDetail("operation", operation)
}

func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), http.StatusNotFound).
		WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

func AlreadyExists(resource string) *AppError {
	return New(ErrCodeAlreadyExists, fmt.Sprintf("A %s with these details already exists.", resource), http.StatusConflict).
		WithDetail("resource", resource)
}

func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "Invalid input: "+reason, http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation is an INVALID_INPUT error with a caller-built message, usually
// followed by WithDetails of per-field messages.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// Unauthorized uses a generic message when reason is empty.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
}

func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken, "Invalid authentication token. Please log in again.", http.StatusUnauthorized)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.", http.StatusInternalServerError).
		WithCause(cause)
}

func DatabaseError(cause error) *AppError {
	return New(ErrCodeDatabaseError, "A database error occurred. Please try again.", http.StatusInternalServerError).
		WithCause(cause)
}

// DatabaseUnavailable is a DatabaseError answered with 503 because the
// connection itself failed.
func DatabaseUnavailable(cause error) *AppError {
	e := DatabaseError(cause)
	e.Message, e.HTTPStatus = "Database is temporarily unavailable. Please try again.", http.StatusServiceUnavailable
	return e
}
