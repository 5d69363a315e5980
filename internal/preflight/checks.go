package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/krpothula/cryoprocess-sub006/internal/config"
	"github.com/krpothula/cryoprocess-sub006/internal/deps"
)

// minScratchBytes is the least free scratch space a classification or
// refinement run is expected to need.
const minScratchBytes = 10 << 30

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
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
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckScratchSpace verifies the scratch filesystem has enough free
// space for particle caching.
func CheckScratchSpace(path string) Result {
	const name = "Scratch space"

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/(1<<30))
	if free < minScratchBytes {
		return Result{Name: name, Detail: detail + " - below 10 GiB"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckSystemDeps evaluates the external processing programs the
// compiler emits commands for. The CLI status and preflight commands
// both use this to avoid duplicating the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "relion_refine",
			Command:     cfg.RelionBinary("relion_refine"),
			Description: "Required for classification and refinement",
		},
		{
			Name:        "relion_run_motioncorr",
			Command:     cfg.RelionBinary("relion_run_motioncorr"),
			Description: "Required for motion correction",
		},
		{
			Name:        "relion_run_ctffind",
			Command:     cfg.RelionBinary("relion_run_ctffind"),
			Description: "Required for CTF estimation",
		},
		{
			Name:        "relion_ctf_refine",
			Command:     cfg.RelionBinary("relion_ctf_refine"),
			Description: "Required for per-particle CTF refinement",
		},
		{
			Name:        "relion_flex_analyse",
			Command:     cfg.RelionBinary("relion_flex_analyse"),
			Description: "Required for multi-body flexibility analysis",
			Optional:    true,
		},
		{
			Name:        "MPI launcher",
			Command:     cfg.Slurm.MPILauncher,
			Description: "Required for parallel jobs",
		},
		{
			Name:        "CTFFIND",
			Command:     cfg.Tools.CtfFind,
			Description: "Required for CTF estimation",
		},
		{
			Name:        "Gctf",
			Command:     cfg.Tools.Gctf,
			Description: "GPU-accelerated CTF estimation backend",
			Optional:    true,
		},
		{
			Name:        "MotionCor2",
			Command:     cfg.Tools.MotionCor2,
			Description: "External motion correction backend",
			Optional:    true,
		},
		{
			Name:        "DynaMight",
			Command:     cfg.Tools.DynaMight,
			Description: "Required for deformation modeling",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}
