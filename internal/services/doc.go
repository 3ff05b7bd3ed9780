// Package services defines shared utilities consumed by the production
// pipeline and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp capsule IDs, segment indexes, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is (tool failure vs data contract violation).
//
// Use these helpers when wiring new production logic so error handling and
// observability stay uniform across the pipeline.
package services
