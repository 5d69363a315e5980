package compiler

import (
	"path/filepath"

	"github.com/krpothula/cryoprocess-sub006/internal/command"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

// MultiBody compiles multi-body refinement jobs. The stage is always a
// continuation of a finished auto-refine run; there is no fresh-input
// variant. An optional flexibility analysis runs as a second chained
// command after the refinement itself succeeds.
type MultiBody struct {
	base

	continueFrom   string
	bodyFile       string
	runFlexibility bool
	numComponents  int
}

func newMultiBody(env Environment, bag params.Bag) *MultiBody {
	return &MultiBody{
		base:           newBase(env, bag),
		continueFrom:   params.ContinueFrom(bag),
		bodyFile:       params.Get(bag, []string{"bodyStarFile", "bodyFile", "fn_bodies"}, ""),
		runFlexibility: params.GetBool(bag, []string{"runFlexibility", "do_analyse"}, false),
		numComponents:  params.GetInt(bag, []string{"numberOfEigenvectors", "nr_components"}, 3),
	}
}

func (m *MultiBody) JobType() JobType { return JobMultiBody }

func (m *MultiBody) Validate() ValidationResult {
	if m.continueFrom == "" {
		return invalid("multi-body refinement must continue from a prior auto-refine optimiser file")
	}
	if res := m.checkFileExists("continuation optimiser file", m.continueFrom); !res.Valid {
		return res
	}
	if res := m.checkFileExists("body mask star file", m.bodyFile); !res.Valid {
		return res
	}
	return m.pass()
}

func (m *MultiBody) Build(outputDir, jobName string) (command.Chain, error) {
	if err := m.ensureValidated(); err != nil {
		return command.Chain{}, err
	}

	procs := params.MPIProcs(m.bag)
	spec := m.mpiSeed("relion_refine", procs)
	spec.Option("--continue", m.inputRelative(m.continueFrom))
	spec.Option("--o", filepath.Join(outputDir, "run"))
	spec.Flag("--solvent_correct_fsc")
	spec.Option("--multibody_masks", m.inputRelative(m.bodyFile))
	spec.OptionInt("--oversampling", 1)
	spec.OptionInt("--pool", params.PooledParticles(m.bag))
	spec.OptionInt("--j", params.Threads(m.bag))
	m.appendGPU(spec)
	m.appendExtraArgs(spec)

	chain := command.Single(spec)
	if m.runFlexibility {
		analyse := command.New("relion_flex_analyse")
		analyse.Flag("--PCA_orient")
		analyse.Option("--model", filepath.Join(outputDir, "run_model.star"))
		analyse.Option("--data", filepath.Join(outputDir, "run_data.star"))
		analyse.Option("--bodies", m.inputRelative(m.bodyFile))
		analyse.Option("--o", filepath.Join(outputDir, "analyse"))
		analyse.Flag("--do_maps")
		analyse.OptionInt("--k", m.numComponents)
		chain = chain.And(analyse)
	}
	return chain, nil
}
