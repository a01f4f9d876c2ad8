package provider

import (
	"context"
	"time"
)

// CallRecorder exports one provider call. *observability.ProviderMetrics
// implements it.
type CallRecorder interface {
	RecordCall(ctx context.Context, kind, provider, status string, d time.Duration)
}

// WithMetrics reports each call to rec with status "ok" or "error".
func WithMetrics[I, O any](kind string, rec CallRecorder) Middleware[I, O] {
	return wrapWith[I, O](func(ctx context.Context, name string, call func(context.Context) (O, error)) (O, error) {
		start := time.Now()
		out, err := call(ctx)
		status := "ok"
		if err != nil {
			status = "error"
		}
		rec.RecordCall(ctx, kind, name, status, time.Since(start))
		return out, err
	})
}
