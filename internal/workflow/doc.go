// Package workflow drives the conversion batch: it discovers scan groups,
// runs each one through parsing, classification, conversion, and sidecar
// merging, and records a per-group outcome. Scan groups are processed
// sequentially and every failure is contained to its own group; the batch
// always runs to completion.
package workflow
