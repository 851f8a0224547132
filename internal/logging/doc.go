// Package logging builds the process-wide slog logger. Two output formats
// are supported: a compact console handler for interactive use and a JSON
// handler for log shipping. Standardized field names keep session, user, and
// stage identifiers consistent across components.
package logging
