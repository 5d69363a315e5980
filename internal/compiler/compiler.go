package compiler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/krpothula/cryoprocess-sub006/internal/command"
	"github.com/krpothula/cryoprocess-sub006/internal/config"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
	"github.com/krpothula/cryoprocess-sub006/internal/projectpath"
)

// JobType identifies one stage of the processing pipeline.
type JobType string

const (
	JobMotionCorr JobType = "motioncorr"
	JobCtfFind    JobType = "ctffind"
	JobClass2D    JobType = "class2d"
	JobClass3D    JobType = "class3d"
	JobRefine3D   JobType = "refine3d"
	JobCtfRefine  JobType = "ctfrefine"
	JobMultiBody  JobType = "multibody"
	JobDynaMight  JobType = "dynamight"
)

// JobTypes returns every supported job type in pipeline order.
func JobTypes() []JobType {
	return []JobType{
		JobMotionCorr,
		JobCtfFind,
		JobClass2D,
		JobClass3D,
		JobRefine3D,
		JobCtfRefine,
		JobMultiBody,
		JobDynaMight,
	}
}

// Describe returns a short human-readable description of the stage.
func (t JobType) Describe() string {
	switch t {
	case JobMotionCorr:
		return "beam-induced motion correction of raw movies"
	case JobCtfFind:
		return "contrast transfer function estimation"
	case JobClass2D:
		return "reference-free 2D classification"
	case JobClass3D:
		return "3D classification against an initial model"
	case JobRefine3D:
		return "gold-standard auto-refinement"
	case JobCtfRefine:
		return "per-particle CTF parameter refinement"
	case JobMultiBody:
		return "multi-body refinement of flexible assemblies"
	case JobDynaMight:
		return "deformation modeling with DynaMight"
	default:
		return string(t)
	}
}

// ParseJobType resolves the job type names used across portal
// revisions.
func ParseJobType(value string) (JobType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "motioncorr", "motioncor", "motion_correction", "motioncorrection":
		return JobMotionCorr, nil
	case "ctffind", "ctf", "ctfestimation":
		return JobCtfFind, nil
	case "class2d", "2dclass", "classification2d":
		return JobClass2D, nil
	case "class3d", "3dclass", "classification3d":
		return JobClass3D, nil
	case "refine3d", "autorefine", "refine":
		return JobRefine3D, nil
	case "ctfrefine", "ctf_refine", "ctfrefinement":
		return JobCtfRefine, nil
	case "multibody", "multi_body":
		return JobMultiBody, nil
	case "dynamight":
		return JobDynaMight, nil
	default:
		return "", fmt.Errorf("unknown job type %q", value)
	}
}

// Environment provides the project- and cluster-level context builders
// consume. It is read-only during a build.
type Environment struct {
	Paths  *projectpath.Resolver
	Tools  config.Tools
	Logger *slog.Logger

	launcherPrefix func(procs int) []string
}

// LauncherPrefix returns the MPI launcher tokens for the given process
// count.
func (e Environment) LauncherPrefix(procs int) []string {
	return e.launcherPrefix(procs)
}

// Compiler turns job submissions into command chains. One Compiler may
// serve many concurrent requests; each Compile call works on fresh
// builder state.
type Compiler struct {
	env Environment
}

// New constructs a Compiler for one project root.
func New(cfg *config.Config, projectRoot string, logger *slog.Logger) (*Compiler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	resolver, err := projectpath.NewResolver(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		env: Environment{
			Paths:          resolver,
			Tools:          cfg.Tools,
			Logger:         logger.With("component", "compiler"),
			launcherPrefix: cfg.LauncherPrefix,
		},
	}, nil
}

// NewBuilder constructs the builder variant for a job type. The bag is
// read, never mutated.
func (c *Compiler) NewBuilder(jobType JobType, bag params.Bag) (Builder, error) {
	switch jobType {
	case JobMotionCorr:
		return newMotionCorr(c.env, bag), nil
	case JobCtfFind:
		return newCtfFind(c.env, bag), nil
	case JobClass2D:
		return newClass2D(c.env, bag), nil
	case JobClass3D:
		return newClass3D(c.env, bag), nil
	case JobRefine3D:
		return newRefine3D(c.env, bag), nil
	case JobCtfRefine:
		return newCtfRefine(c.env, bag), nil
	case JobMultiBody:
		return newMultiBody(c.env, bag), nil
	case JobDynaMight:
		return newDynaMight(c.env, bag), nil
	default:
		return nil, fmt.Errorf("unknown job type %q", jobType)
	}
}

// Result is the outcome of one compile request. Command is only
// populated when Validation passed.
type Result struct {
	RequestID  string
	JobType    JobType
	Validation ValidationResult
	Command    command.Chain
}

// Compile validates and builds in one pass. Validation failures are
// reported inside the Result; the error return is reserved for misuse
// (unknown job type) and never carries user-facing validation text.
func (c *Compiler) Compile(jobType JobType, bag params.Bag, outputDir, jobName string) (Result, error) {
	requestID := uuid.NewString()
	log := c.env.Logger.With("requestID", requestID, "jobType", string(jobType))

	builder, err := c.NewBuilder(jobType, bag)
	if err != nil {
		return Result{}, err
	}

	result := Result{RequestID: requestID, JobType: jobType}
	result.Validation = builder.Validate()
	if !result.Validation.Valid {
		log.Info("validation failed", "error", result.Validation.Err)
		return result, nil
	}

	chain, err := builder.Build(outputDir, jobName)
	if err != nil {
		return Result{}, err
	}
	result.Command = chain

	log.Debug("resolved execution mode",
		"mpiProcs", params.MPIProcs(bag),
		"threads", params.Threads(bag),
		"gpuIds", params.GPUIDs(bag))
	log.Info("compiled command", "jobName", jobName, "command", chain.Render())
	return result, nil
}
