// Package logging provides structured logging for huntquery.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with run, pack and hunt identifiers
//   - Configurable log levels (debug, info, warn, error)
//
// The query core never logs. Hunt pack rendering, the pack watcher and the
// command line tool log through the *slog.Logger returned by Logger.Slog.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "text",
//	})
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "pack rendered", "hunts", 12)  // includes run_id
//
// # Formats
//
// json and text use the slog handlers unchanged. console is text without
// timestamps, which reads better in a terminal and in CI logs.
package logging
