// Package logging builds the slog loggers used across the daemon and CLI.
//
// It provides a compact console handler for interactive use, a JSON handler
// for machine consumption, attribute helpers so call sites stay terse, and a
// no-op logger for tests and optional dependencies.
package logging
