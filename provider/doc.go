// Package provider defines the shape shared by the external AI clients:
// a named, availability-aware RequestResponse, a keyed Registry with a
// fallback key, and composable middleware for logging and tracing.
//
//	reg := provider.NewRegistry[transcription.Provider]("groq")
//	reg.Register(whisper.NewGroq(key))
//	p, _ := reg.Resolve("unknown") // groq
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithTracing[In, Out]("transcription"),
//	)(p)
package provider
