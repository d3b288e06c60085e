// Package parrec2nii wraps the external parrec2nii command-line converter.
// The converter is treated as a black box that turns a PAR/REC pair into a
// compressed NIfTI volume; its failures are classified so known geometric
// limitations surface as skips rather than batch failures.
package parrec2nii
