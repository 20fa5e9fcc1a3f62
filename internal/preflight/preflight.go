package preflight

import (
	"fmt"
	"path/filepath"
	"strings"

	"imgprep/internal/config"
	"imgprep/internal/faults"
)

// MinFreeBytes is the free space below which the output check warns.
const MinFreeBytes = 64 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Fatal marks checks whose failure must stop the run.
	Fatal bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, input := range cfg.Paths.Inputs {
		results = append(results, CheckInputPath("Input "+input, input))
	}

	parent := filepath.Dir(filepath.Clean(cfg.Paths.OutputDir))
	output := CheckDirectoryAccess("Output parent", NearestExisting(parent))
	output.Fatal = true
	results = append(results, output)

	results = append(results, CheckFreeSpace("Free space", NearestExisting(cfg.Paths.OutputDir), MinFreeBytes))

	if cfg.PatchHTML() {
		results = append(results, CheckHTMLFile("HTML document", cfg.Paths.HTMLFile))
	}
	return results
}

// Err returns an ErrFilesystem error naming every failed fatal check, or nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if r.Fatal && !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return faults.Wrap(faults.ErrFilesystem, "preflight", "check", strings.Join(failed, "; "), nil)
}
