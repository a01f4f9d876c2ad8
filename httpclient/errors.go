package httpclient

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/kbukum/voicekit/errors"
)

// ErrorCode names the class of a failed exchange.
type ErrorCode string

const (
	ErrCodeTimeout    ErrorCode = "timeout"
	ErrCodeConnection ErrorCode = "connection" // refused, DNS, open circuit
	ErrCodeAuth       ErrorCode = "auth"       // 401, 403
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeRateLimit  ErrorCode = "rate_limit"
	ErrCodeValidation ErrorCode = "validation" // other 4xx, or a request that could not be built
	ErrCodeServer     ErrorCode = "server"
)

// Error is a classified failure. StatusCode and Body are zero for
// transport errors.
type Error struct {
	Code       ErrorCode
	StatusCode int
	Body       []byte
	Message    string
	// Retryable marks transport failures, 429 and 5xx.
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func transportError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Retryable: true, Err: err}
}

func NewTimeoutError(err error) *Error    { return transportError(ErrCodeTimeout, err) }
func NewConnectionError(err error) *Error { return transportError(ErrCodeConnection, err) }

// NewValidationError reports a request that never left the process.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// ClassifyStatusCode returns nil for 2xx and a typed *Error otherwise.
func ClassifyStatusCode(status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}
	e := &Error{StatusCode: status, Body: body, Message: http.StatusText(status)}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case status == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case status >= 500:
		e.Code, e.Retryable = ErrCodeServer, true
	case status >= 400:
		e.Code = ErrCodeValidation
	default:
		e.Code = ErrCodeServer
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d", status)
	}
	return e
}

func classified(err error) (*Error, bool) {
	var e *Error
	return e, errors.As(err, &e)
}

func IsTimeout(err error) bool {
	e, ok := classified(err)
	return ok && e.Code == ErrCodeTimeout
}

// IsRetryable is also the circuit breaker's failure filter: only these
// errors count against the provider.
func IsRetryable(err error) bool {
	e, ok := classified(err)
	return ok && e.Retryable
}

// ProviderError wraps err as PROVIDER_CALL_FAILED for provider, keeping the
// upstream status and body when a response arrived.
func ProviderError(provider string, err error) *apperrors.AppError {
	status, body := 0, ""
	if e, ok := classified(err); ok {
		status, body = e.StatusCode, string(e.Body)
	}
	return apperrors.ProviderCallFailed(provider, status, body).WithCause(err)
}
