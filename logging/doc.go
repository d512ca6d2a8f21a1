// Package logging provides structured logging configuration for the mock
// server and the httptestd command.
//
// This package wraps log/slog so every component logs the same way. It
// supports configurable levels and output formats.
//
// # Usage
//
// Create a logger with desired configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("mock server listening", "addr", addr)
//
// # Test Output
//
// NewTB returns a logger that writes through a testing.TB, so server logs
// interleave with test output and are only shown for failing tests:
//
//	srv := httptest.New(httptest.WithLogger(logging.NewTB(t)))
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via an option.
// When logging is disabled, use logging.Nop().
package logging
