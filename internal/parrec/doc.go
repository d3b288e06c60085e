// Package parrec parses Philips PAR parameter files: the dotted key/value
// general-information header plus representative values from the per-image
// table. Values keep their native types and absent fields stay absent, so
// downstream code can distinguish "missing" from "zero".
package parrec
