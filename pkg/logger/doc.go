// Package logger provides a slog.Logger factory with environment presets
// and context-aware attribute injection.
//
// New builds a JSON (production) or text (development) handler, attaches
// static service attributes, and wraps the handler with a decorator that
// extracts request-scoped attributes from context at log time.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "notifierd"),
//	)
//	logger.SetAsDefault(log)
//
// Attribute helpers (Error, Component, JobID, ...) keep log keys consistent
// across packages.
package logger
