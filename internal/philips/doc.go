// Package philips reads the optional sidecar metadata Philips exports next to
// a PAR/REC pair: the XML extended-metadata tree and the V41 secondary
// parameter file. Both sources are strictly optional; a missing or broken
// file yields an empty mapping, never an error.
package philips
