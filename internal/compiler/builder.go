package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/krpothula/cryoprocess-sub006/internal/command"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

// Builder compiles one job submission into an external command
// invocation. Validate must be called, and must pass, before Build.
type Builder interface {
	JobType() JobType
	Validate() ValidationResult
	Build(outputDir, jobName string) (command.Chain, error)
}

// ValidationResult reports the outcome of a validation pass. Failures
// are data, never panics or errors: the portal surfaces Err to the user
// and the job is not submitted.
type ValidationResult struct {
	Valid bool
	Err   string
}

func valid() ValidationResult {
	return ValidationResult{Valid: true}
}

func invalid(format string, args ...any) ValidationResult {
	return ValidationResult{Err: fmt.Sprintf(format, args...)}
}

// Parallelism distinguishes single-process from MPI execution.
type Parallelism string

// Accelerator distinguishes CPU from GPU execution.
type Accelerator string

const (
	ParallelismSingle Parallelism = "single"
	ParallelismMPI    Parallelism = "mpi"

	AcceleratorCPU Accelerator = "cpu"
	AcceleratorGPU Accelerator = "gpu"
)

// ExecutionMode captures how a job will run. It is derived once per
// build from the resolved parameters and drives binary and flag
// selection; it is never stored.
type ExecutionMode struct {
	Continuation bool
	Parallelism  Parallelism
	Accelerator  Accelerator
}

func executionMode(bag params.Bag) ExecutionMode {
	mode := ExecutionMode{
		Parallelism: ParallelismSingle,
		Accelerator: AcceleratorCPU,
	}
	if params.ContinueFrom(bag) != "" {
		mode.Continuation = true
	}
	if params.MPIProcs(bag) >= 2 {
		mode.Parallelism = ParallelismMPI
	}
	if params.UseGPU(bag) || params.GPUIDs(bag) != "" {
		mode.Accelerator = AcceleratorGPU
	}
	return mode
}

// errNotValidated guards against building a command from parameters
// that were never checked.
var errNotValidated = errors.New("compiler: validate must pass before building a command")

// base carries the state shared by every concrete builder.
type base struct {
	env       Environment
	bag       params.Bag
	validated bool
}

func newBase(env Environment, bag params.Bag) base {
	return base{env: env, bag: bag}
}

// pass marks validation as successful. Every concrete Validate returns
// through here on its success path.
func (b *base) pass() ValidationResult {
	b.validated = true
	return valid()
}

func (b *base) ensureValidated() error {
	if !b.validated {
		return errNotValidated
	}
	return nil
}

// relionBinary maps a relion_* binary name through the configured bin
// directory, if any.
func (b *base) relionBinary(name string) string {
	if strings.TrimSpace(b.env.Tools.RelionBinDir) == "" {
		return name
	}
	return filepath.Join(b.env.Tools.RelionBinDir, name)
}

// mpiSeed starts a Spec for the given relion binary. Single-process
// jobs get the bare binary; parallel jobs get the configured launcher
// prefix and the _mpi binary variant.
func (b *base) mpiSeed(binary string, procs int) *command.Spec {
	if procs <= 1 {
		return command.New(b.relionBinary(binary))
	}
	tokens := append(b.env.LauncherPrefix(procs), b.relionBinary(binary+"_mpi"))
	return command.New(tokens...)
}

// appendExtraArgs adds the user-supplied free-form flags, split on
// whitespace and appended verbatim. Their content is the user's
// responsibility.
func (b *base) appendExtraArgs(spec *command.Spec) {
	extra := params.ExtraArguments(b.bag)
	if extra == "" {
		return
	}
	spec.Add(strings.Fields(extra)...)
}

// appendGPU emits the GPU selection flag when acceleration was
// requested, with explicit device IDs when the form supplied them.
func (b *base) appendGPU(spec *command.Spec) {
	if !params.UseGPU(b.bag) && params.GPUIDs(b.bag) == "" {
		return
	}
	if ids := params.GPUIDs(b.bag); ids != "" {
		spec.Option("--gpu", ids)
	} else {
		spec.Flag("--gpu")
	}
}

// resolveInput maps a logical input reference to an absolute path.
func (b *base) resolveInput(ref string) string {
	return b.env.Paths.Resolve(ref)
}

// relative maps an absolute path to the project-relative form used in
// emitted commands.
func (b *base) relative(path string) string {
	return b.env.Paths.Relativize(path)
}

// inputRelative resolves and immediately relativizes a reference so the
// emitted token is always project-relative regardless of how the form
// supplied it.
func (b *base) inputRelative(ref string) string {
	return b.relative(b.resolveInput(ref))
}

// checkFileExists verifies a referenced upstream file. The label names
// the input in the error so "missing required input" and "referenced
// file not found" stay distinguishable for the user.
func (b *base) checkFileExists(label, ref string) ValidationResult {
	if strings.TrimSpace(ref) == "" {
		return invalid("%s is required", label)
	}
	path := b.resolveInput(ref)
	if _, err := os.Stat(path); err != nil {
		return invalid("%s %s not found", label, ref)
	}
	return valid()
}
