// Package logging wraps log/slog with wallshift's two output formats: a
// human-oriented console format and machine-readable JSON. Component loggers
// created with WithComponent prefix console lines with the subsystem name.
package logging
