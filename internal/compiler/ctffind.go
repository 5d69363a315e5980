package compiler

import (
	"strings"

	"github.com/krpothula/cryoprocess-sub006/internal/command"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

// ctffindMajorVersion infers the CTFFIND major version from the
// configured executable path. Installations name the binary
// "ctffind4"/"ctffind-4.1.14" or "ctffind5"/"ctffind-5.0.2"; version 4
// is the default when the name carries no version at all.
func ctffindMajorVersion(path string) int {
	lower := strings.ToLower(path)
	for _, marker := range []string{"ctffind5", "ctffind-5", "ctffind_5"} {
		if strings.Contains(lower, marker) {
			return 5
		}
	}
	return 4
}

// sortedDefocus returns the defocus search range in ascending order.
// Forms occasionally arrive with the bounds swapped; the emitted pair
// is always sorted so downstream tooling sees a canonical range.
func sortedDefocus(minDefocus, maxDefocus float64) (float64, float64) {
	if minDefocus > maxDefocus {
		return maxDefocus, minDefocus
	}
	return minDefocus, maxDefocus
}

// CtfFind compiles CTF estimation jobs. CTFFIND is the primary backend;
// selecting Gctf replaces the CTFFIND flag set entirely, the two are
// never mixed.
type CtfFind struct {
	base

	inputStar   string
	useGctf     bool
	cs          float64
	voltage     float64
	ampContrast float64
	pixelSize   float64
	boxSize     int
	minRes      float64
	maxRes      float64
	minDefocus  float64
	maxDefocus  float64
	defocusStep float64
	astigmatism float64
	phaseShift  bool
	phaseMin    float64
	phaseMax    float64
	phaseStep   float64
	mode        ExecutionMode
}

func newCtfFind(env Environment, bag params.Bag) *CtfFind {
	return &CtfFind{
		base:        newBase(env, bag),
		inputStar:   params.InputStarFile(bag),
		useGctf:     params.GetBool(bag, []string{"useGctf", "use_gctf"}, false),
		cs:          params.GetFloat(bag, []string{"sphericalAberration", "cs"}, 2.7),
		voltage:     params.GetFloat(bag, []string{"voltage", "kV"}, 300),
		ampContrast: params.GetFloat(bag, []string{"amplitudeContrast", "ampContrast", "q0"}, 0.1),
		pixelSize:   params.GetFloat(bag, []string{"pixelSize", "angpix"}, 1),
		boxSize:     params.GetInt(bag, []string{"boxSize", "windowSize"}, 512),
		minRes:      params.GetFloat(bag, []string{"minResolution", "resMin"}, 30),
		maxRes:      params.GetFloat(bag, []string{"maxResolution", "resMax"}, 5),
		minDefocus:  params.GetFloat(bag, []string{"minDefocus", "dFMin"}, 5000),
		maxDefocus:  params.GetFloat(bag, []string{"maxDefocus", "dFMax"}, 50000),
		defocusStep: params.GetFloat(bag, []string{"defocusStep", "fStep"}, 500),
		astigmatism: params.GetFloat(bag, []string{"astigmatism", "dAst"}, 100),
		phaseShift:  params.GetBool(bag, []string{"phaseShift", "do_phaseshift"}, false),
		phaseMin:    params.GetFloat(bag, []string{"phaseShiftMin", "phase_min"}, 0),
		phaseMax:    params.GetFloat(bag, []string{"phaseShiftMax", "phase_max"}, 180),
		phaseStep:   params.GetFloat(bag, []string{"phaseShiftStep", "phase_step"}, 10),
		mode:        executionMode(bag),
	}
}

func (c *CtfFind) JobType() JobType { return JobCtfFind }

func (c *CtfFind) Validate() ValidationResult {
	if res := c.checkFileExists("input micrograph star file", c.inputStar); !res.Valid {
		return res
	}
	if c.useGctf {
		if c.env.Tools.Gctf == "" {
			return invalid("gctf executable is not configured")
		}
	} else if c.env.Tools.CtfFind == "" {
		return invalid("ctffind executable is not configured")
	}
	return c.pass()
}

func (c *CtfFind) Build(outputDir, jobName string) (command.Chain, error) {
	if err := c.ensureValidated(); err != nil {
		return command.Chain{}, err
	}

	procs := params.MPIProcs(c.bag)
	spec := c.mpiSeed("relion_run_ctffind", procs)
	spec.Option("--i", c.inputRelative(c.inputStar))
	spec.Option("--o", outputDir+"/")
	spec.OptionFloat("--CS", c.cs)
	spec.OptionFloat("--HT", c.voltage)
	spec.OptionFloat("--AmpCnst", c.ampContrast)
	spec.OptionFloat("--angpix", c.pixelSize)
	spec.OptionInt("--Box", c.boxSize)
	spec.OptionFloat("--ResMin", c.minRes)
	spec.OptionFloat("--ResMax", c.maxRes)

	lo, hi := sortedDefocus(c.minDefocus, c.maxDefocus)
	spec.OptionFloat("--dFMin", lo)
	spec.OptionFloat("--dFMax", hi)
	spec.OptionFloat("--FStep", c.defocusStep)
	spec.OptionFloat("--dAst", c.astigmatism)

	if c.phaseShift {
		spec.Flag("--do_phaseshift")
		spec.OptionFloat("--phase_min", c.phaseMin)
		spec.OptionFloat("--phase_max", c.phaseMax)
		spec.OptionFloat("--phase_step", c.phaseStep)
	}

	if c.useGctf {
		spec.Flag("--use_gctf")
		spec.Option("--gctf_exe", c.env.Tools.Gctf)
		spec.Flag("--ignore_ctffind_params")
		if ids := params.GPUIDs(c.bag); ids != "" {
			spec.Option("--gpu", ids)
		}
	} else {
		spec.Option("--ctffind_exe", c.env.Tools.CtfFind)
		if ctffindMajorVersion(c.env.Tools.CtfFind) == 4 {
			spec.Flag("--is_ctffind4")
		}
	}

	if c.mode.Continuation {
		spec.Flag("--only_do_unfinished")
	}

	c.appendExtraArgs(spec)
	return command.Single(spec), nil
}
