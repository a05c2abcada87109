// Package httpserver wraps net/http with graceful shutdown, signal
// handling, env-based configuration, and slog logging.
//
// Run blocks until the context is cancelled, SIGINT/SIGTERM arrives, or the
// listener fails; in-flight requests get ShutdownTimeout to complete.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server exited", logger.Error(err))
//	}
package httpserver
