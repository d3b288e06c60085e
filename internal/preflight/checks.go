// Package preflight verifies the environment before a batch starts: input
// and output directories must be accessible and the external converter must
// be on PATH. Failing a check aborts the run before any scan is touched.
package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"parbids/internal/config"
	"parbids/internal/deps"
)

// Result captures the outcome of one readiness check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckDataDir verifies that the input directory exists and is readable.
func CheckDataDir(path string) Result {
	return checkDirectory("Data directory", path, unix.R_OK|unix.X_OK)
}

// CheckOutputDir verifies that the output directory exists and is writable.
func CheckOutputDir(path string) Result {
	return checkDirectory("Output directory", path, unix.R_OK|unix.W_OK|unix.X_OK)
}

func checkDirectory(name, path string, mode uint32) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (access ok)", path)}
}

// CheckConverter verifies the configured converter binary is resolvable.
func CheckConverter(cfg *config.Config) Result {
	const name = "Converter"
	statuses := deps.CheckBinaries([]deps.Requirement{
		{
			Name:        name,
			Command:     cfg.ConverterBinary(),
			Description: "Required for PAR/REC to NIfTI conversion",
		},
	})
	status := statuses[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	return Result{Name: name, Passed: true, Detail: status.Command}
}

// Run evaluates every check for the given config and returns the results
// plus an error summarizing the failures, if any.
func Run(cfg *config.Config) ([]Result, error) {
	results := []Result{
		CheckDataDir(cfg.DataDir),
		CheckOutputDir(cfg.OutputDir),
		CheckConverter(cfg),
	}
	var failures []string
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	if len(failures) > 0 {
		return results, fmt.Errorf("preflight failed: %s", strings.Join(failures, "; "))
	}
	return results, nil
}
