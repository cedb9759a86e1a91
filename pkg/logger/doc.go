// Package logger provides the structured logging interface used across the tracker.
//
// It wraps zerolog with a small Logger interface so collectors, the fetcher and
// the retry helper can be handed either the real console logger, a no-op logger
// or a capturing TestLogger.
//
//	cfg := &config.LoggingConfig{Level: "info"}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//	logger.WithField("game", "Hollow Knight").Info("Tracking started")
//
// Console output is colored and human readable. When LoggingConfig.File is set,
// JSON lines are appended to that file as well.
package logger
