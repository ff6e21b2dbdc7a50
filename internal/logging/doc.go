// Package logging assembles the structured slog loggers used across cdrip.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides component loggers plus a no-op logger for tests.
// Prefer these constructors over hand-rolled slog setup so every command
// emits log lines with the same shape.
package logging
