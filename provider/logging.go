package provider

import (
	"context"
	"time"

	"github.com/kbukum/voicekit/logger"
)

// WithLogging logs each call with its duration: failures at warn, since the
// pipeline turns them into a 422, successes at debug.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return wrapWith[I, O](func(ctx context.Context, name string, call func(context.Context) (O, error)) (O, error) {
		start := time.Now()
		out, err := call(ctx)

		fields := logger.ProviderFields(name, time.Since(start))
		if err != nil {
			log.WithContext(ctx).WithError(err).Warn("provider call failed", fields)
		} else {
			log.WithContext(ctx).Debug("provider call ok", fields)
		}
		return out, err
	})
}
