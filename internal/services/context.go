package services

import "context"

type contextKey string

const (
	runIDContextKey contextKey = "parbids.run_id"
	scanContextKey  contextKey = "parbids.scan"
	stepContextKey  contextKey = "parbids.step"
)

// WithRunID stamps the batch run identifier onto the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDContextKey, runID)
}

// RunIDFromContext extracts the batch run identifier, if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDContextKey).(string)
	return id, ok && id != ""
}

// WithScan stamps the scan-group name (the PAR base name) onto the context.
func WithScan(ctx context.Context, scan string) context.Context {
	if scan == "" {
		return ctx
	}
	return context.WithValue(ctx, scanContextKey, scan)
}

// ScanFromContext extracts the scan-group name, if present.
func ScanFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	scan, ok := ctx.Value(scanContextKey).(string)
	return scan, ok && scan != ""
}

// WithStep stamps the current pipeline step name onto the context.
func WithStep(ctx context.Context, step string) context.Context {
	if step == "" {
		return ctx
	}
	return context.WithValue(ctx, stepContextKey, step)
}

// StepFromContext extracts the pipeline step name, if present.
func StepFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	step, ok := ctx.Value(stepContextKey).(string)
	return step, ok && step != ""
}
