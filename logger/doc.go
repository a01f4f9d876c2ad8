// Package logger provides structured logging for voicekit using zerolog.
//
// It supports console and JSON output, level configuration, and
// component-scoped loggers with structured fields.
//
//	logging:
//	  level: "info"
//	  format: "json"
//
//	log := logger.New(&cfg.Logging, "voicekit").WithComponent("transcription")
//	log.Info("transcribed", logger.Fields(logger.FieldProvider, "groq"))
package logger
