package parrec2nii

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"parbids/internal/services"
)

var commandContext = exec.CommandContext

// geometryMarkers are stderr substrings the converter emits for geometric
// conditions it cannot represent as a single NIfTI volume. They are expected
// limitations, not failures.
var geometryMarkers = []string{
	"varying slice orientation",
	"slice orientation varies",
	"inconsistent slice orientation",
	"unsupported geometry",
	"multiple image orientations",
}

// Converter defines external conversion behaviour: given a parameter file
// and an output directory, produce a compressed volumetric image and return
// its path.
type Converter interface {
	Convert(ctx context.Context, parPath, outputDir string) (string, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithTimeout bounds a single conversion. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		c.timeout = timeout
	}
}

// CLI wraps the parrec2nii command-line converter.
type CLI struct {
	binary  string
	timeout time.Duration
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "parrec2nii"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Convert launches parrec2nii and returns the path of the compressed volume
// it produced. Geometry limitations the converter reports are wrapped as
// services.ErrUnsupportedGeometry; everything else as services.ErrExternalTool.
func (c *CLI) Convert(ctx context.Context, parPath, outputDir string) (string, error) {
	if strings.TrimSpace(parPath) == "" {
		return "", errors.New("parameter file path required")
	}
	cleanOutputDir := strings.TrimSpace(outputDir)
	if cleanOutputDir == "" {
		return "", errors.New("output directory required")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"--overwrite",
		"--compressed",
		"--store-header",
		"--output-dir", cleanOutputDir,
		parPath,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		message := strings.TrimSpace(string(output))
		if message == "" {
			message = err.Error()
		}
		if isGeometryLimitation(message) {
			return "", services.Wrap(services.ErrUnsupportedGeometry, "convert", "parrec2nii", firstLine(message), err)
		}
		return "", services.Wrap(services.ErrExternalTool, "convert", "parrec2nii", firstLine(message), err)
	}

	return locateOutput(parPath, cleanOutputDir)
}

// locateOutput finds the volume the converter wrote: the PAR stem with a
// .nii.gz extension, or .nii when compression was unavailable.
func locateOutput(parPath, outputDir string) (string, error) {
	base := filepath.Base(parPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}

	for _, ext := range []string{".nii.gz", ".nii"} {
		candidate := filepath.Join(outputDir, stem+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrExternalTool, "convert", "locate output",
		fmt.Sprintf("converter reported success but produced no volume for %s", base), nil)
}

func isGeometryLimitation(message string) bool {
	folded := strings.ToLower(message)
	for _, marker := range geometryMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[:i])
	}
	return message
}

var _ Converter = (*CLI)(nil)
