package logger

import (
	"time"
)

// Field keys shared across packages.
const (
	FieldComponent  = "component"
	FieldTraceID    = "trace_id"
	FieldSpanID     = "span_id"
	FieldRequestID  = "request_id"
	FieldUserID     = "user_id"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldProvider   = "provider"
	FieldAppContext = "app_context"
	FieldMinutes    = "minutes"
)

// Fields pairs up alternating keys and values. Non-string keys and a
// trailing key without a value are dropped.
//
//	log.Info("tracked", logger.Fields(logger.FieldMinutes, 1.5))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if k, ok := kvs[i].(string); ok {
			m[k] = kvs[i+1]
		}
	}
	return m
}

// ProviderFields describes a finished provider call.
func ProviderFields(provider string, took time.Duration) map[string]any {
	return map[string]any{FieldProvider: provider, FieldDuration: took.Milliseconds()}
}
