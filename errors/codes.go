package errors

// ErrorCode is the machine-readable "code" of an error envelope.
type ErrorCode string

const (
	ErrCodeTimeout     ErrorCode = "TIMEOUT"
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"

	// ErrCodeProviderUnconfigured: the selected provider has no credential.
	ErrCodeProviderUnconfigured ErrorCode = "PROVIDER_UNCONFIGURED"
	// ErrCodeProviderCallFailed: a provider answered non-2xx or could not be reached.
	ErrCodeProviderCallFailed ErrorCode = "PROVIDER_CALL_FAILED"

	// ErrCodeUsageLimitExceeded: no minutes left this billing month.
	ErrCodeUsageLimitExceeded ErrorCode = "USAGE_LIMIT_EXCEEDED"

	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"

	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"

	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// Provider failures are terminal for the request; clients retry explicitly,
// usually with another provider.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:       true,
	ErrCodeRateLimited:   true,
	ErrCodeDatabaseError: true,
}

// IsRetryableCode reports whether clients may repeat a request that failed
// with code.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
