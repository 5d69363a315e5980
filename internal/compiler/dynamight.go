package compiler

import (
	"github.com/krpothula/cryoprocess-sub006/internal/command"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

// DynaMight subcommands. Exactly one task family runs per job; inverse
// deformation optimization and deformable backprojection may be chained
// in that order.
const (
	dynamightTrain       = "optimize-deformations"
	dynamightExplore     = "explore-latent-space"
	dynamightInverse     = "optimize-inverse-deformations"
	dynamightBackproject = "deformable-backprojection"
)

// DynaMight compiles flexibility analysis jobs. The tool has no MPI
// variant; GPU device selection is always available and defaults to
// device 0.
type DynaMight struct {
	base

	particlesStar string
	initialModel  string
	checkpoint    string
	numGaussians  int
	regularize    float64
	exploreLatent bool
	inverse       bool
	backproject   bool
}

func newDynaMight(env Environment, bag params.Bag) *DynaMight {
	return &DynaMight{
		base:          newBase(env, bag),
		particlesStar: params.InputStarFile(bag),
		initialModel:  params.Get(bag, []string{"initialModel", "referenceMap", "fn_ref"}, ""),
		checkpoint:    params.ContinueFrom(bag),
		numGaussians:  params.GetInt(bag, []string{"numberOfGaussians", "n_gaussians"}, 20000),
		regularize:    params.GetFloat(bag, []string{"regularizationFactor", "lambda"}, 1),
		exploreLatent: params.GetBool(bag, []string{"exploreLatentSpace", "do_visualize"}, false),
		inverse:       params.GetBool(bag, []string{"optimizeInverseDeformations", "do_inverse"}, false),
		backproject:   params.GetBool(bag, []string{"deformableBackprojection", "do_backproject"}, false),
	}
}

func (d *DynaMight) JobType() JobType { return JobDynaMight }

// needsCheckpoint reports whether the requested tasks operate on a
// prior training run rather than starting one.
func (d *DynaMight) needsCheckpoint() bool {
	return d.exploreLatent || d.inverse || d.backproject
}

func (d *DynaMight) Validate() ValidationResult {
	if d.needsCheckpoint() {
		if res := d.checkFileExists("training checkpoint file", d.checkpoint); !res.Valid {
			return res
		}
		return d.pass()
	}
	if res := d.checkFileExists("input particle star file", d.particlesStar); !res.Valid {
		return res
	}
	if res := d.checkFileExists("initial consensus map", d.initialModel); !res.Valid {
		return res
	}
	return d.pass()
}

// gpuDevice returns the device the job should run on. DynaMight takes a
// single device ID, so a multi-device selection collapses to the first.
func (d *DynaMight) gpuDevice() string {
	ids := params.GPUIDs(d.bag)
	if ids == "" {
		return "0"
	}
	for i := 0; i < len(ids); i++ {
		if ids[i] == ':' || ids[i] == ',' {
			return ids[:i]
		}
	}
	return ids
}

func (d *DynaMight) Build(outputDir, jobName string) (command.Chain, error) {
	if err := d.ensureValidated(); err != nil {
		return command.Chain{}, err
	}

	switch {
	case d.exploreLatent:
		return command.Single(d.checkpointSpec(dynamightExplore, outputDir)), nil
	case d.inverse || d.backproject:
		var chain command.Chain
		if d.inverse {
			inverse := d.checkpointSpec(dynamightInverse, outputDir)
			inverse.OptionInt("--n-epochs", 200)
			chain = command.Single(inverse)
		}
		if d.backproject {
			back := d.checkpointSpec(dynamightBackproject, outputDir)
			if chain.Len() == 0 {
				chain = command.Single(back)
			} else {
				chain = chain.And(back)
			}
		}
		return chain, nil
	default:
		return command.Single(d.trainSpec(outputDir)), nil
	}
}

// trainSpec builds the initial deformation training invocation.
func (d *DynaMight) trainSpec(outputDir string) *command.Spec {
	spec := command.New(d.env.Tools.DynaMight, dynamightTrain)
	spec.Option("--refinement-star-file", d.inputRelative(d.particlesStar))
	spec.Option("--output-directory", outputDir)
	spec.Option("--initial-model", d.inputRelative(d.initialModel))
	spec.OptionInt("--n-gaussians", d.numGaussians)
	spec.OptionFloat("--regularization-factor", d.regularize)
	spec.Option("--gpu-id", d.gpuDevice())
	d.appendExtraArgs(spec)
	return spec
}

// checkpointSpec builds an invocation for the subcommands that resume
// from a stored training checkpoint.
func (d *DynaMight) checkpointSpec(subcommand, outputDir string) *command.Spec {
	spec := command.New(d.env.Tools.DynaMight, subcommand)
	spec.Option("--output-directory", outputDir)
	spec.Option("--checkpoint-file", d.inputRelative(d.checkpoint))
	spec.Option("--gpu-id", d.gpuDevice())
	d.appendExtraArgs(spec)
	return spec
}
