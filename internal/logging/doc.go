// Package logging assembles structured slog loggers and formatting helpers used
// across slidecast.
//
// The console handler folds the component, capsule and segment attributes into
// a line prefix such as "production[demo#2]:"; the JSON handler keeps them as
// fields. Outputs are stderr or files. stdout is refused because it carries the
// progress protocol.
package logging
