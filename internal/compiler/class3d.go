package compiler

import (
	"path/filepath"

	"github.com/krpothula/cryoprocess-sub006/internal/command"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

// Class3D compiles 3D classification jobs. The flag grammar is the
// Class2D one plus a reference map, symmetry, and a fixed healpix
// sampling order.
type Class3D struct {
	base

	inputStar    string
	continueFrom string
	refMap       string
	refGreyscale bool
	iniHigh      float64
	symmetry     string
	numClasses   int
	iterations   int
	doAlign      bool
	maskDiameter float64
	ctf          bool
	tauFudge     float64
	zeroMask     bool
	sampling     float64
	offsetRange  float64
	offsetStep   float64
	mode         ExecutionMode
}

func newClass3D(env Environment, bag params.Bag) *Class3D {
	return &Class3D{
		base:         newBase(env, bag),
		inputStar:    params.InputStarFile(bag),
		continueFrom: params.ContinueFrom(bag),
		refMap:       params.Get(bag, []string{"referenceMap", "fn_ref"}, ""),
		refGreyscale: params.GetBool(bag, []string{"refIsGreyscale", "ref_correct_greyscale"}, false),
		iniHigh:      params.GetFloat(bag, []string{"initialLowpass", "ini_high"}, 60),
		symmetry:     params.Get(bag, []string{"symmetry", "sym_name"}, "C1"),
		numClasses:   params.GetInt(bag, []string{"numberOfClasses", "nr_classes"}, 4),
		iterations:   params.Iterations(bag, defaultEMIterations),
		doAlign:      params.GetBool(bag, []string{"performImageAlignment", "doImageAlignment"}, true),
		maskDiameter: params.MaskDiameter(bag),
		ctf:          params.GetBool(bag, []string{"ctfCorrection", "do_ctf"}, true),
		tauFudge:     params.GetFloat(bag, []string{"regularisationParameter", "tau_fudge"}, 4),
		zeroMask:     params.GetBool(bag, []string{"maskWithZeros", "zero_mask"}, true),
		sampling:     params.GetFloat(bag, []string{"angularSampling", "sampling"}, 7.5),
		offsetRange:  params.GetFloat(bag, []string{"offsetSearchRange", "offset_range"}, 5),
		offsetStep:   params.GetFloat(bag, []string{"offsetSearchStep", "offset_step"}, 2),
		mode:         executionMode(bag),
	}
}

func (c *Class3D) JobType() JobType { return JobClass3D }

func (c *Class3D) Validate() ValidationResult {
	if c.mode.Continuation {
		if res := c.checkFileExists("continuation optimiser file", c.continueFrom); !res.Valid {
			return res
		}
		return c.pass()
	}
	if res := c.checkFileExists("input particle star file", c.inputStar); !res.Valid {
		return res
	}
	if res := c.checkFileExists("reference map", c.refMap); !res.Valid {
		return res
	}
	return c.pass()
}

func (c *Class3D) Build(outputDir, jobName string) (command.Chain, error) {
	if err := c.ensureValidated(); err != nil {
		return command.Chain{}, err
	}

	procs := params.MPIProcs(c.bag)
	spec := c.mpiSeed("relion_refine", procs)

	if c.mode.Continuation {
		spec.Option("--continue", c.inputRelative(c.continueFrom))
		spec.Option("--o", filepath.Join(outputDir, "run"))
		spec.Flag("--dont_combine_weights_via_disc")
		c.appendRuntimeFlags(spec)
		c.appendExtraArgs(spec)
		return command.Single(spec), nil
	}

	spec.Option("--o", filepath.Join(outputDir, "run"))
	spec.Option("--i", c.inputRelative(c.inputStar))
	spec.Option("--ref", c.inputRelative(c.refMap))
	if !c.refGreyscale {
		spec.Flag("--firstiter_cc")
	}
	spec.OptionFloat("--ini_high", c.iniHigh)
	spec.Flag("--dont_combine_weights_via_disc")
	spec.OptionInt("--pad", 2)
	if c.ctf {
		spec.Flag("--ctf")
	}
	spec.OptionInt("--iter", c.iterations)
	spec.OptionFloat("--tau2_fudge", c.tauFudge)
	spec.OptionInt("--K", c.numClasses)
	spec.OptionFloat("--particle_diameter", c.maskDiameter)
	spec.Flag("--flatten_solvent")
	if c.zeroMask {
		spec.Flag("--zero_mask")
	}
	spec.OptionInt("--oversampling", 1)
	if c.doAlign {
		spec.OptionInt("--healpix_order", healpixOrder(c.sampling))
		spec.OptionFloat("--offset_range", c.offsetRange)
		spec.OptionFloat("--offset_step", c.offsetStep)
	} else {
		spec.Flag("--skip_align")
	}
	spec.Option("--sym", c.symmetry)
	spec.Flag("--norm")
	spec.Flag("--scale")
	c.appendRuntimeFlags(spec)
	c.appendExtraArgs(spec)
	return command.Single(spec), nil
}

func (c *Class3D) appendRuntimeFlags(spec *command.Spec) {
	if scratch := params.ScratchDir(c.bag); scratch != "" {
		spec.Option("--scratch_dir", scratch)
	}
	spec.OptionInt("--pool", params.PooledParticles(c.bag))
	spec.OptionInt("--j", params.Threads(c.bag))
	c.appendGPU(spec)
}
