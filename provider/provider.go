package provider

import "context"

// Provider is anything kept in a Registry: a named external client that
// knows whether it has credentials.
type Provider interface {
	Name() string
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a Provider with a single call. Transcription clients
// map audio to text and polishing clients map text to text.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Middleware decorates a RequestResponse.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain(a, b)(p) is a(b(p)): a sees the call first.
func Chain[I, O any](mws ...Middleware[I, O]) Middleware[I, O] {
	return func(p RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(mws) - 1; i >= 0; i-- {
			p = mws[i](p)
		}
		return p
	}
}

// observer runs around one call of the named provider.
type observer[O any] func(ctx context.Context, name string, call func(context.Context) (O, error)) (O, error)

// around delegates Name and IsAvailable to the embedded provider and routes
// Execute through observe.
type around[I, O any] struct {
	RequestResponse[I, O]
	observe observer[O]
}

func wrapWith[I, O any](observe observer[O]) Middleware[I, O] {
	return func(p RequestResponse[I, O]) RequestResponse[I, O] {
		return &around[I, O]{RequestResponse: p, observe: observe}
	}
}

func (a *around[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return a.observe(ctx, a.Name(), func(ctx context.Context) (O, error) {
		return a.RequestResponse.Execute(ctx, input)
	})
}
