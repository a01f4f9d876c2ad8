// Package bootstrap drives the process lifecycle of the voicekit server:
// config defaults and validation, logger setup, ordered component start,
// configure callbacks, a startup summary and graceful shutdown on signal.
package bootstrap
