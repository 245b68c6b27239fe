// Package logging wires slog for the daemon and CLI. It provides a compact
// console handler for interactive use, a JSON handler for log files, attr
// helpers with standardized field names, and a sampler that keeps encoder
// progress from flooding the log.
package logging
