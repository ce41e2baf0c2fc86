// Package logging assembles structured slog loggers and formatting helpers used
// across contactbook.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers that keep warning and error lines in a common
// shape (event_type, error_hint, impact). The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing.
package logging
