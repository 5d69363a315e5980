package compiler

import (
	"strings"
	"testing"

	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

func TestMultiBodyRequiresContinuation(t *testing.T) {
	env, root := testEnv(t)
	bodies := writeProjectFile(t, root, "MultiBody/bodies.star")

	b := newMultiBody(env, params.Bag{"bodyStarFile": bodies})
	res := b.Validate()
	if res.Valid || !strings.Contains(res.Err, "continue") {
		t.Fatalf("got %+v, want continuation requirement", res)
	}
}

func TestMultiBodyRequiresBodyFile(t *testing.T) {
	env, root := testEnv(t)
	opt := writeProjectFile(t, root, "Refine3D/job016/run_it025_optimiser.star")

	b := newMultiBody(env, params.Bag{"continueFrom": opt})
	res := b.Validate()
	if res.Valid || !strings.Contains(res.Err, "body mask star file") {
		t.Fatalf("got %+v, want body file requirement", res)
	}
}

func TestMultiBodyRefinementOnly(t *testing.T) {
	env, root := testEnv(t)
	opt := writeProjectFile(t, root, "Refine3D/job016/run_it025_optimiser.star")
	bodies := writeProjectFile(t, root, "MultiBody/bodies.star")

	b := newMultiBody(env, params.Bag{
		"continueFrom": opt,
		"bodyStarFile": bodies,
		"mpiProcs":     "4",
	})
	if res := b.Validate(); !res.Valid {
		t.Fatalf("validate: %s", res.Err)
	}
	chain, err := b.Build("MultiBody/job030", "job030")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if chain.Len() != 1 {
		t.Fatalf("got %d chained commands, want 1", chain.Len())
	}

	cmd := chain.Render()
	for _, want := range []string{
		"mpirun -n 4 relion_refine_mpi",
		"--continue Refine3D/job016/run_it025_optimiser.star",
		"--o MultiBody/job030/run",
		"--solvent_correct_fsc",
		"--multibody_masks MultiBody/bodies.star",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command missing %q: %s", want, cmd)
		}
	}
	for _, banned := range []string{"--auto_refine", "--split_random_halves"} {
		if strings.Contains(cmd, banned) {
			t.Errorf("multi-body must not emit %q: %s", banned, cmd)
		}
	}
}

func TestMultiBodyWithFlexibilityAnalysis(t *testing.T) {
	env, root := testEnv(t)
	opt := writeProjectFile(t, root, "Refine3D/job016/run_it025_optimiser.star")
	bodies := writeProjectFile(t, root, "MultiBody/bodies.star")

	b := newMultiBody(env, params.Bag{
		"continueFrom":         opt,
		"bodyStarFile":         bodies,
		"runFlexibility":       "Yes",
		"numberOfEigenvectors": "5",
	})
	if res := b.Validate(); !res.Valid {
		t.Fatalf("validate: %s", res.Err)
	}
	chain, err := b.Build("MultiBody/job030", "job030")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if chain.Len() != 2 {
		t.Fatalf("got %d chained commands, want 2", chain.Len())
	}

	cmd := chain.Render()
	if !strings.Contains(cmd, " && ") {
		t.Fatalf("chained commands must join with &&: %s", cmd)
	}
	second := chain.Specs()[1].String()
	for _, want := range []string{
		"relion_flex_analyse",
		"--PCA_orient",
		"--model MultiBody/job030/run_model.star",
		"--data MultiBody/job030/run_data.star",
		"--bodies MultiBody/bodies.star",
		"--o MultiBody/job030/analyse",
		"--do_maps",
		"--k 5",
	} {
		if !strings.Contains(second, want) {
			t.Errorf("analysis command missing %q: %s", want, second)
		}
	}
}
