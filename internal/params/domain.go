package params

import "strings"

// Alias lists for parameters whose form key drifted across portal
// revisions. Order is precedence: the first present key wins.
var (
	mpiProcsAliases        = []string{"mpiProcs", "runningmpi", "numberOfMpiProcs", "nr_mpi"}
	threadsAliases         = []string{"threads", "numberOfThreads", "nr_threads"}
	gpuIDsAliases          = []string{"gpuIds", "gpuID", "whichGPUs"}
	useGPUAliases          = []string{"useGPU", "gpuAcceleration", "use_gpu"}
	inputStarAliases       = []string{"inputStarFile", "input_star_file", "inputFile", "fn_img"}
	continueFromAliases    = []string{"continueFrom", "checkpointFile", "continue_from", "fn_cont"}
	maskDiameterAliases    = []string{"maskDiameter", "maskDiameterA", "particle_diameter"}
	iterationsAliases      = []string{"iterations", "numberOfIterations", "nr_iter"}
	pooledParticlesAliases = []string{"pooledParticles", "nr_pool"}
	scratchDirAliases      = []string{"scratchDir", "scratch_dir"}
	extraArgsAliases       = []string{"additionalArguments", "extraArguments", "other_args"}
)

// MPIProcs returns the requested MPI process count, defaulting to a
// single process.
func MPIProcs(data Bag) int {
	return GetInt(data, mpiProcsAliases, 1)
}

// Threads returns the per-process thread count, defaulting to one.
func Threads(data Bag) int {
	return GetInt(data, threadsAliases, 1)
}

// GPUIDs returns the device selection string, e.g. "0:1", or "" when
// unset.
func GPUIDs(data Bag) string {
	return strings.TrimSpace(Get(data, gpuIDsAliases, ""))
}

// UseGPU reports whether GPU acceleration was requested.
func UseGPU(data Bag) bool {
	return GetBool(data, useGPUAliases, false)
}

// InputStarFile returns the primary STAR input reference, or "".
func InputStarFile(data Bag) string {
	return strings.TrimSpace(Get(data, inputStarAliases, ""))
}

// ContinueFrom returns the continuation reference (a prior run's
// optimiser or checkpoint file), or "" for a fresh job.
func ContinueFrom(data Bag) string {
	return strings.TrimSpace(Get(data, continueFromAliases, ""))
}

// MaskDiameter returns the particle mask diameter in angstroms,
// defaulting to 200.
func MaskDiameter(data Bag) float64 {
	return GetFloat(data, maskDiameterAliases, 200)
}

// Iterations returns the iteration count with a stage-supplied default;
// classification stages pick different defaults per optimization mode.
func Iterations(data Bag, def int) int {
	return GetInt(data, iterationsAliases, def)
}

// PooledParticles returns the number of particles pooled per MPI rank,
// defaulting to 3.
func PooledParticles(data Bag) int {
	return GetInt(data, pooledParticlesAliases, 3)
}

// ScratchDir returns the fast local scratch directory, or "".
func ScratchDir(data Bag) string {
	return strings.TrimSpace(Get(data, scratchDirAliases, ""))
}

// ExtraArguments returns the free-form pass-through flag string, or "".
func ExtraArguments(data Bag) string {
	return strings.TrimSpace(Get(data, extraArgsAliases, ""))
}
