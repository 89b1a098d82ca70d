// Package logger builds the JSON slog logger used by every binary and
// passes request-scoped loggers through context.Context.
package logger
