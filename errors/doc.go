// Package errors provides the application error type shared by every layer.
// AppError carries a machine-readable code, an HTTP status mapping, a retryable
// flag and free-form details, and renders to an RFC 7807 style envelope.
// Provider failures always record the provider name under details["provider"].
package errors
