package compiler

import (
	"strings"

	"github.com/krpothula/cryoprocess-sub006/internal/command"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
	"github.com/krpothula/cryoprocess-sub006/internal/starfile"
)

// solventMaskLabel is the field a postprocess descriptor must carry
// before any CTF parameter fit may run against it.
const solventMaskLabel = "_rlnMaskName"

// fitModeChar encodes one tri-state fit selection: off, per-micrograph,
// or per-particle.
func fitModeChar(value string) byte {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(normalized, "particle"):
		return 'p'
	case strings.Contains(normalized, "micrograph"):
		return 'm'
	default:
		return 'f'
	}
}

// fitModeCode assembles the fixed 5-character code relion_ctf_refine
// expects: phase shift, defocus, astigmatism, a reserved slot that is
// always 'f', then the B-factor.
func fitModeCode(phase, defocus, astigmatism, bfactor string) string {
	return string([]byte{
		fitModeChar(phase),
		fitModeChar(defocus),
		fitModeChar(astigmatism),
		'f',
		fitModeChar(bfactor),
	})
}

// CtfRefine compiles per-particle CTF refinement jobs. The stage is
// CPU-only: a GPU request is ignored rather than rejected.
type CtfRefine struct {
	base

	particlesStar   string
	postprocessStar string
	phaseFit        string
	defocusFit      string
	astigmatismFit  string
	bFactorFit      string
	beamTilt        bool
	trefoil         bool
	anisoMag        bool
	minResFit       float64
}

func newCtfRefine(env Environment, bag params.Bag) *CtfRefine {
	return &CtfRefine{
		base:            newBase(env, bag),
		particlesStar:   params.InputStarFile(bag),
		postprocessStar: params.Get(bag, []string{"postprocessStarFile", "postprocessFile", "fn_post"}, ""),
		phaseFit:        params.Get(bag, []string{"fitPhaseShift", "phase_shift_fit"}, "No"),
		defocusFit:      params.Get(bag, []string{"fitDefocus", "defocus_fit"}, "No"),
		astigmatismFit:  params.Get(bag, []string{"fitAstigmatism", "astigmatism_fit"}, "No"),
		bFactorFit:      params.Get(bag, []string{"fitBFactor", "bfactor_fit"}, "No"),
		beamTilt:        params.GetBool(bag, []string{"fitBeamTilt", "do_tilt_fit"}, false),
		// Trefoil is a sub-option of the beam-tilt fit; requested alone
		// it is ignored, matching the portal's historical behavior.
		trefoil:   params.GetBool(bag, []string{"fitTrefoil", "do_trefoil"}, false),
		anisoMag:  params.GetBool(bag, []string{"fitAnisotropicMagnification", "do_aniso_mag"}, false),
		minResFit: params.GetFloat(bag, []string{"minResolutionFit", "kmin"}, 30),
	}
}

func (c *CtfRefine) JobType() JobType { return JobCtfRefine }

// fitsAnything reports whether any of the tri-state CTF fits is
// enabled.
func (c *CtfRefine) fitsAnything() bool {
	code := fitModeCode(c.phaseFit, c.defocusFit, c.astigmatismFit, c.bFactorFit)
	return strings.ContainsAny(code, "mp")
}

func (c *CtfRefine) Validate() ValidationResult {
	if res := c.checkFileExists("input particle star file", c.particlesStar); !res.Valid {
		return res
	}
	if res := c.checkFileExists("postprocess star file", c.postprocessStar); !res.Valid {
		return res
	}
	post, err := starfile.Open(c.resolveInput(c.postprocessStar))
	if err != nil {
		return invalid("postprocess star file %s could not be read: %v", c.postprocessStar, err)
	}
	if !post.HasField(solventMaskLabel) {
		return invalid("postprocess star file %s does not reference a solvent mask (%s)", c.postprocessStar, solventMaskLabel)
	}
	if !c.fitsAnything() && !c.beamTilt && !c.anisoMag {
		return invalid("at least one refinement mode must be enabled")
	}
	return c.pass()
}

func (c *CtfRefine) Build(outputDir, jobName string) (command.Chain, error) {
	if err := c.ensureValidated(); err != nil {
		return command.Chain{}, err
	}

	procs := params.MPIProcs(c.bag)
	spec := c.mpiSeed("relion_ctf_refine", procs)
	spec.Option("--i", c.inputRelative(c.particlesStar))
	spec.Option("--f", c.inputRelative(c.postprocessStar))
	spec.Option("--o", outputDir+"/")

	if c.anisoMag {
		spec.Flag("--fit_aniso")
		spec.OptionFloat("--kmin_mag", c.minResFit)
	}
	if c.fitsAnything() {
		spec.Flag("--fit_defocus")
		spec.OptionFloat("--kmin_defocus", c.minResFit)
		spec.Option("--fit_mode", fitModeCode(c.phaseFit, c.defocusFit, c.astigmatismFit, c.bFactorFit))
	}
	if c.beamTilt {
		spec.Flag("--fit_beamtilt")
		spec.OptionFloat("--kmin_tilt", c.minResFit)
		if c.trefoil {
			spec.OptionInt("--odd_aberr_max_n", 3)
		}
	}

	spec.OptionInt("--j", params.Threads(c.bag))
	c.appendExtraArgs(spec)
	return command.Single(spec), nil
}
