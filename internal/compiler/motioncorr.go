package compiler

import (
	"regexp"
	"strconv"

	"github.com/krpothula/cryoprocess-sub006/internal/command"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

// Dropdown labels for gain transforms carry their numeric code in a
// trailing parenthesis, e.g. "90 degrees (1)" or "No flipping (0)".
var dropdownCodePattern = regexp.MustCompile(`\((\d+)\)\s*$`)

// dropdownCode extracts the trailing numeric code from a form dropdown
// label. Labels without a code resolve to 0, which is always the
// "disabled" option.
func dropdownCode(label string) int {
	match := dropdownCodePattern.FindStringSubmatch(label)
	if match == nil {
		return 0
	}
	code, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return code
}

// MotionCorr compiles motion-correction jobs. The stage runs either
// RELION's own implementation or the external MotionCor2 program; the
// two branches select disjoint flag groups.
type MotionCorr struct {
	base

	inputStar     string
	useOwn        bool
	gainRef       string
	gainRotation  int
	gainFlip      int
	defectFile    string
	patchX        int
	patchY        int
	groupFrames   int
	binFactor     int
	bFactor       float64
	doseWeighting bool
	dosePerFrame  float64
	preExposure   float64
	pixelSize     float64
	voltage       float64
	mode          ExecutionMode
}

func newMotionCorr(env Environment, bag params.Bag) *MotionCorr {
	return &MotionCorr{
		base:          newBase(env, bag),
		inputStar:     params.InputStarFile(bag),
		useOwn:        params.GetBool(bag, []string{"useRelionImplementation", "useOwnImplementation", "use_own"}, true),
		gainRef:       params.Get(bag, []string{"gainReferenceFile", "gainRef", "fn_gain_ref"}, ""),
		gainRotation:  dropdownCode(params.Get(bag, []string{"gainRotation", "gain_rot"}, "")),
		gainFlip:      dropdownCode(params.Get(bag, []string{"gainFlip", "gain_flip"}, "")),
		defectFile:    params.Get(bag, []string{"defectFile", "fn_defect"}, ""),
		patchX:        params.GetInt(bag, []string{"patchX", "patch_x"}, 1),
		patchY:        params.GetInt(bag, []string{"patchY", "patch_y"}, 1),
		groupFrames:   params.GetInt(bag, []string{"groupFrames", "group_frames"}, 1),
		binFactor:     params.GetInt(bag, []string{"binningFactor", "bin_factor"}, 1),
		bFactor:       params.GetFloat(bag, []string{"bFactor", "bfactor"}, 150),
		doseWeighting: params.GetBool(bag, []string{"doseWeighting", "dose_weighting"}, true),
		dosePerFrame:  params.GetFloat(bag, []string{"dosePerFrame", "dose_per_frame"}, 1),
		preExposure:   params.GetFloat(bag, []string{"preExposure", "pre_exposure"}, 0),
		pixelSize:     params.GetFloat(bag, []string{"pixelSize", "angpix"}, 1),
		voltage:       params.GetFloat(bag, []string{"voltage", "kV"}, 300),
		mode:          executionMode(bag),
	}
}

func (m *MotionCorr) JobType() JobType { return JobMotionCorr }

func (m *MotionCorr) Validate() ValidationResult {
	if res := m.checkFileExists("input movie star file", m.inputStar); !res.Valid {
		return res
	}
	if !m.useOwn && m.env.Tools.MotionCor2 == "" {
		return invalid("motioncor2 executable is not configured")
	}
	if m.gainRef != "" {
		if res := m.checkFileExists("gain reference", m.gainRef); !res.Valid {
			return res
		}
	}
	if m.defectFile != "" {
		if res := m.checkFileExists("defect file", m.defectFile); !res.Valid {
			return res
		}
	}
	return m.pass()
}

func (m *MotionCorr) Build(outputDir, jobName string) (command.Chain, error) {
	if err := m.ensureValidated(); err != nil {
		return command.Chain{}, err
	}

	procs := params.MPIProcs(m.bag)
	spec := m.mpiSeed("relion_run_motioncorr", procs)
	spec.Option("--i", m.inputRelative(m.inputStar))
	spec.Option("--o", outputDir+"/")
	spec.OptionInt("--first_frame_sum", 1)
	spec.OptionInt("--last_frame_sum", -1)

	if m.useOwn {
		spec.Flag("--use_own")
		spec.OptionInt("--j", params.Threads(m.bag))
	} else {
		spec.Flag("--use_motioncor2")
		spec.Option("--motioncor2_exe", m.env.Tools.MotionCor2)
		if ids := params.GPUIDs(m.bag); ids != "" {
			spec.Option("--gpu", ids)
		}
	}

	spec.OptionInt("--bin_factor", m.binFactor)
	spec.OptionFloat("--bfactor", m.bFactor)
	spec.OptionFloat("--angpix", m.pixelSize)
	spec.OptionFloat("--voltage", m.voltage)
	spec.OptionFloat("--dose_per_frame", m.dosePerFrame)
	spec.OptionFloat("--preexposure", m.preExposure)
	spec.OptionInt("--patch_x", m.patchX)
	spec.OptionInt("--patch_y", m.patchY)
	if m.groupFrames > 1 {
		spec.OptionInt("--group_frames", m.groupFrames)
	}

	if m.gainRef != "" {
		spec.Option("--gainref", m.inputRelative(m.gainRef))
		if m.gainRotation != 0 {
			spec.OptionInt("--gain_rot", m.gainRotation)
		}
		if m.gainFlip != 0 {
			spec.OptionInt("--gain_flip", m.gainFlip)
		}
	}
	if m.defectFile != "" {
		spec.Option("--defect_file", m.inputRelative(m.defectFile))
	}
	if m.doseWeighting {
		spec.Flag("--dose_weighting")
	}
	if m.mode.Continuation {
		spec.Flag("--only_do_unfinished")
	}

	m.appendExtraArgs(spec)
	return command.Single(spec), nil
}
