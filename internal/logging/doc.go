// Package logging builds the slog loggers used across parbids and defines the
// standardized attribute helpers and field names shared by every component.
package logging
