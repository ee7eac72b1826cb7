package writer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Run name format: run_2025-10-30T14-30-00, optionally suffixed _N
var runNameRegex = regexp.MustCompile(`^run_\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}(_\d+)?$`)

// ValidateRunName checks that name is a plain run directory name.
// It rejects path traversal, absolute paths, separators and anything not
// shaped like run_YYYY-MM-DDTHH-MM-SS.
func ValidateRunName(name string) error {
	if name == "" {
		return fmt.Errorf("run name cannot be empty")
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid run name: contains '..' (path traversal attempt)")
	}

	if filepath.IsAbs(name) {
		return fmt.Errorf("invalid run name: must be relative path")
	}

	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("invalid run name: must be directory name without path separators")
	}

	if !runNameRegex.MatchString(name) {
		return fmt.Errorf("invalid run name format: expected 'run_YYYY-MM-DDTHH-MM-SS', got '%s'", name)
	}

	return nil
}

// RunDir resolves a run name under outputDir, refusing paths that escape it
func RunDir(outputDir, name string) (string, error) {
	if err := ValidateRunName(name); err != nil {
		return "", err
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(outputDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to resolve run path: %w", err)
	}

	// Separator suffix keeps "/out" from matching "/out-other"
	if !strings.HasPrefix(absPath, absOutput+string(filepath.Separator)) {
		return "", fmt.Errorf("run path escapes output directory")
	}

	return absPath, nil
}
