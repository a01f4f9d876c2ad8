// Package component defines the lifecycle contract for infrastructure the
// voicekit process owns: the database, redis, the tracer and the HTTP
// server. A Registry starts them in order at boot and stops them in
// reverse order on shutdown.
package component
