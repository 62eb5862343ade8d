// Package logging assembles structured slog loggers for tubegrab.
//
// It owns the console and JSON handlers, routes output to stderr plus the
// state log file, and exposes context helpers that tag lines with the batch
// position, reference, stage, and correlation ID of the acquisition in flight.
package logging
