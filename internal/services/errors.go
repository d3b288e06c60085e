package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse indicates a required input file is missing or structurally
	// unreadable.
	ErrParse = errors.New("parse error")
	// ErrUnsupportedGeometry indicates the external converter reported a
	// known geometric limitation (for example varying slice orientation
	// across a volume). Scans hitting it are skipped, not failed.
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
	// ErrExternalTool indicates any other external converter failure.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation indicates a derived value or output artifact failed an
	// internal consistency check.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration indicates the batch cannot proceed with the current
	// configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes pipeline context while tagging it
// with the provided marker for later status classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, step, operation, message string, err error) error {
	detail := buildDetail(step, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(step, operation, message string) string {
	parts := make([]string, 0, 3)
	if step = strings.TrimSpace(step); step != "" {
		parts = append(parts, step)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
