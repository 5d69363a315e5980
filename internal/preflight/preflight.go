package preflight

import (
	"github.com/krpothula/cryoprocess-sub006/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Directory checks always run; the scratch space check only runs when a
// scratch directory is configured and accessible.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Projects directory", cfg.Paths.ProjectsDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	if cfg.Paths.ScratchDir != "" {
		scratch := CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir)
		results = append(results, scratch)
		if scratch.Passed {
			results = append(results, CheckScratchSpace(cfg.Paths.ScratchDir))
		}
	}

	return results
}
