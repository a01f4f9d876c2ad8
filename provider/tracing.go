package provider

import (
	"context"

	"github.com/kbukum/voicekit/observability"
)

// WithTracing opens a "{kind}.{provider}" span per call.
func WithTracing[I, O any](kind string) Middleware[I, O] {
	return wrapWith[I, O](func(ctx context.Context, name string, call func(context.Context) (O, error)) (O, error) {
		ctx, span := observability.StartSpan(ctx, kind+"."+name)
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrKind, kind)
		observability.SetSpanAttribute(ctx, observability.AttrProvider, name)

		out, err := call(ctx)
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		return out, err
	})
}
