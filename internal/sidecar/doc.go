// Package sidecar assembles and writes the JSON metadata records that
// accompany converted images. A Record preserves field insertion order so
// re-runs produce byte-identical sidecars apart from the conversion
// timestamp. The merger is the single place where field naming and unit
// conventions are enforced across the dataset.
package sidecar
