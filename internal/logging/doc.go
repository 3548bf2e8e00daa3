// Package logging assembles structured slog loggers and formatting helpers
// used across shortcast components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so dispatch and replenishment code
// tag log lines with dates, slots, and tick IDs consistently. A no-op logger
// is provided for tests and wiring code that cannot fail.
package logging
