package compiler

import (
	"strings"
	"testing"

	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

func TestDropdownCode(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"No rotation (0)", 0},
		{"90 degrees (1)", 1},
		{"180 degrees (2)", 2},
		{"270 degrees (3)", 3},
		{"Flip upside down (1)", 1},
		{"No flipping (0)", 0},
		{"", 0},
		{"unlabelled option", 0},
		{"trailing spaces (2)   ", 2},
	}
	for _, tt := range tests {
		if got := dropdownCode(tt.label); got != tt.want {
			t.Errorf("dropdownCode(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestMotionCorrOwnImplementation(t *testing.T) {
	env, root := testEnv(t)
	star := writeProjectFile(t, root, "Import/movies.star")

	b := newMotionCorr(env, params.Bag{
		"inputStarFile": star,
		"threads":       "8",
	})
	cmd := buildCommand(t, b, "MotionCorr/job002")

	for _, want := range []string{
		"relion_run_motioncorr",
		"--i Import/movies.star",
		"--o MotionCorr/job002/",
		"--use_own",
		"--j 8",
		"--dose_weighting",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command missing %q: %s", want, cmd)
		}
	}
	if strings.Contains(cmd, "--use_motioncor2") {
		t.Errorf("own implementation must not select motioncor2: %s", cmd)
	}
}

func TestMotionCorrExternalMotionCor2(t *testing.T) {
	env, root := testEnv(t)
	star := writeProjectFile(t, root, "Import/movies.star")

	b := newMotionCorr(env, params.Bag{
		"inputStarFile":           star,
		"useRelionImplementation": "No",
		"gpuIds":                  "0:1",
	})
	cmd := buildCommand(t, b, "MotionCorr/job003")

	for _, want := range []string{
		"--use_motioncor2",
		"--motioncor2_exe /opt/motioncor2/bin/MotionCor2",
		"--gpu 0:1",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command missing %q: %s", want, cmd)
		}
	}
	if strings.Contains(cmd, "--use_own") {
		t.Errorf("motioncor2 branch must not emit --use_own: %s", cmd)
	}
}

func TestMotionCorrExternalRequiresConfiguredExe(t *testing.T) {
	env, root := testEnv(t)
	env.Tools.MotionCor2 = ""
	star := writeProjectFile(t, root, "Import/movies.star")

	b := newMotionCorr(env, params.Bag{
		"inputStarFile":           star,
		"useRelionImplementation": "No",
	})
	res := b.Validate()
	if res.Valid || !strings.Contains(res.Err, "motioncor2") {
		t.Fatalf("got %+v, want motioncor2 configuration error", res)
	}
}

func TestMotionCorrGainTransforms(t *testing.T) {
	env, root := testEnv(t)
	star := writeProjectFile(t, root, "Import/movies.star")
	gain := writeProjectFile(t, root, "Import/gain.mrc")

	t.Run("rotation and flip emitted", func(t *testing.T) {
		b := newMotionCorr(env, params.Bag{
			"inputStarFile":     star,
			"gainReferenceFile": gain,
			"gainRotation":      "90 degrees (1)",
			"gainFlip":          "Flip left to right (2)",
		})
		cmd := buildCommand(t, b, "MotionCorr/job004")
		if !strings.Contains(cmd, "--gainref Import/gain.mrc") {
			t.Errorf("missing gain reference: %s", cmd)
		}
		if !strings.Contains(cmd, "--gain_rot 1") || !strings.Contains(cmd, "--gain_flip 2") {
			t.Errorf("missing gain transforms: %s", cmd)
		}
	})

	t.Run("zero codes suppressed", func(t *testing.T) {
		b := newMotionCorr(env, params.Bag{
			"inputStarFile":     star,
			"gainReferenceFile": gain,
			"gainRotation":      "No rotation (0)",
			"gainFlip":          "No flipping (0)",
		})
		cmd := buildCommand(t, b, "MotionCorr/job005")
		if strings.Contains(cmd, "--gain_rot") || strings.Contains(cmd, "--gain_flip") {
			t.Errorf("disabled transforms must not be emitted: %s", cmd)
		}
	})
}

func TestMotionCorrContinuation(t *testing.T) {
	env, root := testEnv(t)
	star := writeProjectFile(t, root, "Import/movies.star")
	opt := writeProjectFile(t, root, "MotionCorr/job006/run.star")

	b := newMotionCorr(env, params.Bag{
		"inputStarFile": star,
		"continueFrom":  opt,
	})
	cmd := buildCommand(t, b, "MotionCorr/job006")
	if !strings.Contains(cmd, "--only_do_unfinished") {
		t.Errorf("continuation must only do unfinished micrographs: %s", cmd)
	}
}

func TestMotionCorrMPIVariant(t *testing.T) {
	env, root := testEnv(t)
	star := writeProjectFile(t, root, "Import/movies.star")

	b := newMotionCorr(env, params.Bag{
		"inputStarFile": star,
		"mpiProcs":      "4",
	})
	cmd := buildCommand(t, b, "MotionCorr/job007")
	if !strings.HasPrefix(cmd, "mpirun -n 4 relion_run_motioncorr_mpi ") {
		t.Errorf("missing launcher prefix and mpi binary: %s", cmd)
	}
}
