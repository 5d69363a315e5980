package compiler

import (
	"path/filepath"

	"github.com/krpothula/cryoprocess-sub006/internal/command"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

// healpixOrder maps a continuous angular sampling value in degrees onto
// the discrete healpix order ladder the refinement binaries accept:
// 30→0, 15→1, 7.5→2, 3.7→3, 1.8→4, 0.9→5.
func healpixOrder(degrees float64) int {
	switch {
	case degrees >= 30:
		return 0
	case degrees >= 15:
		return 1
	case degrees >= 7.5:
		return 2
	case degrees >= 3.7:
		return 3
	case degrees >= 1.8:
		return 4
	default:
		return 5
	}
}

// effectiveMPIProcs applies the split-random-halves floor. Gold-standard
// refinement needs one leader plus one worker per half, so a request for
// 2 processes is silently raised to 3. Requests of 0 or 1 stay
// single-process and never split.
func effectiveMPIProcs(procs int, splitHalves bool) int {
	if splitHalves && procs == 2 {
		return 3
	}
	return procs
}

// Refine3D compiles gold-standard auto-refinement jobs.
type Refine3D struct {
	base

	inputStar     string
	continueFrom  string
	refMap        string
	refGreyscale  bool
	iniHigh       float64
	symmetry      string
	maskDiameter  float64
	ctf           bool
	zeroMask      bool
	sampling      float64
	localSampling float64
	offsetRange   float64
	offsetStep    float64
	splitHalves   bool
	helix         bool
	helixDiameter float64
	helixAsymUnit int
	helixTwist    float64
	helixRise     float64
	helixSearch   float64
	mode          ExecutionMode
}

func newRefine3D(env Environment, bag params.Bag) *Refine3D {
	return &Refine3D{
		base:          newBase(env, bag),
		inputStar:     params.InputStarFile(bag),
		continueFrom:  params.ContinueFrom(bag),
		refMap:        params.Get(bag, []string{"referenceMap", "fn_ref"}, ""),
		refGreyscale:  params.GetBool(bag, []string{"refIsGreyscale", "ref_correct_greyscale"}, false),
		iniHigh:       params.GetFloat(bag, []string{"initialLowpass", "ini_high"}, 60),
		symmetry:      params.Get(bag, []string{"symmetry", "sym_name"}, "C1"),
		maskDiameter:  params.MaskDiameter(bag),
		ctf:           params.GetBool(bag, []string{"ctfCorrection", "do_ctf"}, true),
		zeroMask:      params.GetBool(bag, []string{"maskWithZeros", "zero_mask"}, true),
		sampling:      params.GetFloat(bag, []string{"angularSampling", "sampling"}, 7.5),
		localSampling: params.GetFloat(bag, []string{"localAngularSampling", "auto_local_sampling"}, 1.8),
		offsetRange:   params.GetFloat(bag, []string{"offsetSearchRange", "offset_range"}, 5),
		offsetStep:    params.GetFloat(bag, []string{"offsetSearchStep", "offset_step"}, 1),
		splitHalves:   params.GetBool(bag, []string{"splitRandomHalves", "do_split_random_halves"}, true),
		helix:         params.GetBool(bag, []string{"helicalReconstruction", "do_helix"}, false),
		helixDiameter: params.GetFloat(bag, []string{"helicalOuterDiameter", "helical_outer_diameter"}, 200),
		helixAsymUnit: params.GetInt(bag, []string{"helicalAsymmetricalUnits", "helical_nr_asu"}, 1),
		helixTwist:    params.GetFloat(bag, []string{"helicalTwist", "helical_twist_initial"}, 0),
		helixRise:     params.GetFloat(bag, []string{"helicalRise", "helical_rise_initial"}, 0),
		helixSearch:   params.GetFloat(bag, []string{"helicalAngularSearchRange", "helical_range_distance"}, 15),
		mode:          executionMode(bag),
	}
}

func (r *Refine3D) JobType() JobType { return JobRefine3D }

func (r *Refine3D) Validate() ValidationResult {
	if r.mode.Continuation {
		if res := r.checkFileExists("continuation optimiser file", r.continueFrom); !res.Valid {
			return res
		}
		return r.pass()
	}
	if res := r.checkFileExists("input particle star file", r.inputStar); !res.Valid {
		return res
	}
	if res := r.checkFileExists("reference map", r.refMap); !res.Valid {
		return res
	}
	return r.pass()
}

func (r *Refine3D) Build(outputDir, jobName string) (command.Chain, error) {
	if err := r.ensureValidated(); err != nil {
		return command.Chain{}, err
	}

	procs := effectiveMPIProcs(params.MPIProcs(r.bag), r.splitHalves)
	spec := r.mpiSeed("relion_refine", procs)

	if r.mode.Continuation {
		spec.Option("--continue", r.inputRelative(r.continueFrom))
		spec.Option("--o", filepath.Join(outputDir, "run"))
		spec.Flag("--dont_combine_weights_via_disc")
		r.appendRuntimeFlags(spec)
		r.appendExtraArgs(spec)
		return command.Single(spec), nil
	}

	spec.Option("--o", filepath.Join(outputDir, "run"))
	spec.Flag("--auto_refine")
	if r.splitHalves {
		spec.Flag("--split_random_halves")
	}
	spec.Option("--i", r.inputRelative(r.inputStar))
	spec.Option("--ref", r.inputRelative(r.refMap))
	if !r.refGreyscale {
		// References not on an absolute intensity scale need the initial
		// cross-correlation calibration iteration.
		spec.Flag("--firstiter_cc")
	}
	spec.OptionFloat("--ini_high", r.iniHigh)
	spec.Flag("--dont_combine_weights_via_disc")
	spec.OptionInt("--pad", 2)
	if r.ctf {
		spec.Flag("--ctf")
	}
	spec.OptionFloat("--particle_diameter", r.maskDiameter)
	spec.Flag("--flatten_solvent")
	if r.zeroMask {
		spec.Flag("--zero_mask")
	}
	spec.OptionInt("--oversampling", 1)
	spec.OptionInt("--healpix_order", healpixOrder(r.sampling))
	spec.OptionInt("--auto_local_healpix_order", healpixOrder(r.localSampling))
	spec.OptionFloat("--offset_range", r.offsetRange)
	spec.OptionFloat("--offset_step", r.offsetStep)
	spec.Option("--sym", r.symmetry)
	spec.OptionFloat("--low_resol_join_halves", 40)
	spec.Flag("--norm")
	spec.Flag("--scale")
	if r.helix {
		spec.Flag("--helix")
		spec.OptionFloat("--helical_outer_diameter", r.helixDiameter)
		spec.OptionInt("--helical_nr_asu", r.helixAsymUnit)
		spec.OptionFloat("--helical_twist_initial", r.helixTwist)
		spec.OptionFloat("--helical_rise_initial", r.helixRise)
		// The GUI exposes the full search range; the binary wants the
		// standard deviation, one third of it.
		spec.OptionFloat("--sigma_psi", r.helixSearch/3.0)
	}
	r.appendRuntimeFlags(spec)
	r.appendExtraArgs(spec)
	return command.Single(spec), nil
}

func (r *Refine3D) appendRuntimeFlags(spec *command.Spec) {
	if scratch := params.ScratchDir(r.bag); scratch != "" {
		spec.Option("--scratch_dir", scratch)
	}
	spec.OptionInt("--pool", params.PooledParticles(r.bag))
	spec.OptionInt("--j", params.Threads(r.bag))
	r.appendGPU(spec)
}
