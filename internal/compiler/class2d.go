package compiler

import (
	"path/filepath"

	"github.com/krpothula/cryoprocess-sub006/internal/command"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

// Default iteration counts per optimization mode. The VDAM mini-batch
// algorithm needs many cheap iterations; classic EM needs few expensive
// ones.
const (
	defaultVDAMIterations = 200
	defaultEMIterations   = 25
)

// Class2D compiles 2D classification jobs. Two mutually exclusive
// optimization modes exist: gradient-driven VDAM mini-batches (the
// default) and classic expectation-maximization. Mode selection changes
// which flags exist at all.
type Class2D struct {
	base

	inputStar    string
	continueFrom string
	numClasses   int
	useVDAM      bool
	iterations   int
	doAlign      bool
	maskDiameter float64
	ctf          bool
	tauFudge     float64
	zeroMask     bool
	psiStep      float64
	offsetRange  float64
	offsetStep   float64
	mode         ExecutionMode
}

func newClass2D(env Environment, bag params.Bag) *Class2D {
	useVDAM := params.GetBool(bag, []string{"useVDAM", "useGradient", "do_grad"}, true)
	iterDefault := defaultVDAMIterations
	if !useVDAM {
		iterDefault = defaultEMIterations
	}
	return &Class2D{
		base:         newBase(env, bag),
		inputStar:    params.InputStarFile(bag),
		continueFrom: params.ContinueFrom(bag),
		numClasses:   params.GetInt(bag, []string{"numberOfClasses", "nr_classes"}, 50),
		useVDAM:      useVDAM,
		iterations:   params.Iterations(bag, iterDefault),
		doAlign:      params.GetBool(bag, []string{"performImageAlignment", "doImageAlignment"}, true),
		maskDiameter: params.MaskDiameter(bag),
		ctf:          params.GetBool(bag, []string{"ctfCorrection", "do_ctf"}, true),
		tauFudge:     params.GetFloat(bag, []string{"regularisationParameter", "tau_fudge"}, 2),
		zeroMask:     params.GetBool(bag, []string{"maskWithZeros", "zero_mask"}, true),
		psiStep:      params.GetFloat(bag, []string{"inplaneAngularSampling", "psi_step"}, 12),
		offsetRange:  params.GetFloat(bag, []string{"offsetSearchRange", "offset_range"}, 5),
		offsetStep:   params.GetFloat(bag, []string{"offsetSearchStep", "offset_step"}, 2),
		mode:         executionMode(bag),
	}
}

func (c *Class2D) JobType() JobType { return JobClass2D }

func (c *Class2D) Validate() ValidationResult {
	if c.mode.Continuation {
		if res := c.checkFileExists("continuation optimiser file", c.continueFrom); !res.Valid {
			return res
		}
		return c.pass()
	}
	if res := c.checkFileExists("input particle star file", c.inputStar); !res.Valid {
		return res
	}
	return c.pass()
}

func (c *Class2D) Build(outputDir, jobName string) (command.Chain, error) {
	if err := c.ensureValidated(); err != nil {
		return command.Chain{}, err
	}

	procs := params.MPIProcs(c.bag)
	spec := c.mpiSeed("relion_refine", procs)

	if c.mode.Continuation {
		// Continuation resumes the stored optimiser state; nearly every
		// model parameter is already fixed there.
		spec.Option("--continue", c.inputRelative(c.continueFrom))
		spec.Option("--o", filepath.Join(outputDir, "run"))
		spec.Flag("--dont_combine_weights_via_disc")
		c.appendRuntimeFlags(spec)
		c.appendExtraArgs(spec)
		return command.Single(spec), nil
	}

	spec.Option("--o", filepath.Join(outputDir, "run"))
	spec.Option("--i", c.inputRelative(c.inputStar))
	spec.Flag("--dont_combine_weights_via_disc")
	if c.ctf {
		spec.Flag("--ctf")
	}
	spec.OptionInt("--iter", c.iterations)
	if c.useVDAM {
		spec.Flag("--grad")
		spec.OptionFloat("--class_inactivity_threshold", 0.1)
		spec.OptionInt("--grad_write_iter", 10)
	}
	spec.OptionFloat("--tau2_fudge", c.tauFudge)
	spec.OptionInt("--K", c.numClasses)
	spec.OptionFloat("--particle_diameter", c.maskDiameter)
	spec.Flag("--flatten_solvent")
	if c.zeroMask {
		spec.Flag("--zero_mask")
	}
	spec.OptionInt("--oversampling", 1)
	if c.doAlign {
		spec.OptionFloat("--psi_step", c.psiStep)
		spec.OptionFloat("--offset_range", c.offsetRange)
		spec.OptionFloat("--offset_step", c.offsetStep)
	} else {
		spec.Flag("--skip_align")
	}
	spec.Flag("--norm")
	spec.Flag("--scale")
	c.appendRuntimeFlags(spec)
	c.appendExtraArgs(spec)
	return command.Single(spec), nil
}

// appendRuntimeFlags emits the resource flags shared by fresh and
// continued runs.
func (c *Class2D) appendRuntimeFlags(spec *command.Spec) {
	if scratch := params.ScratchDir(c.bag); scratch != "" {
		spec.Option("--scratch_dir", scratch)
	}
	spec.OptionInt("--pool", params.PooledParticles(c.bag))
	spec.OptionInt("--j", params.Threads(c.bag))
	c.appendGPU(spec)
}
