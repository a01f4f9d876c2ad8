// Package observability wires OpenTelemetry: OTLP HTTP exporters for traces
// and metrics, the global providers behind them, span helpers used around
// provider calls and the provider call and usage instruments.
//
//	tp, err := observability.InitTracer(ctx, cfg.Tracing)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "transcription.groq")
//	defer span.End()
//
// Tracing and metrics run as components so bootstrap flushes them on exit.
package observability
