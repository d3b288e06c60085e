// Package services defines shared utilities consumed by the conversion
// pipeline and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, scan-group names, and
//     pipeline step names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent conversion statuses (skipped vs failed).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the batch.
package services
