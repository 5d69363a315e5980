package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

const postprocessWithMask = `
data_general

_rlnFinalResolution       3.2
_rlnMaskName              MaskCreate/job019/mask.mrc
_rlnUnfilteredMapHalf1    Refine3D/job016/run_half1_class001_unfil.mrc
`

const postprocessWithoutMask = `
data_general

_rlnFinalResolution       3.2
_rlnUnfilteredMapHalf1    Refine3D/job016/run_half1_class001_unfil.mrc
`

func writeStarFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return name
}

func TestFitModeChar(t *testing.T) {
	tests := []struct {
		value string
		want  byte
	}{
		{"No", 'f'},
		{"", 'f'},
		{"Per-micrograph", 'm'},
		{"per micrograph", 'm'},
		{"Per-particle", 'p'},
		{"PER-PARTICLE", 'p'},
		{"anything else", 'f'},
	}
	for _, tt := range tests {
		if got := fitModeChar(tt.value); got != tt.want {
			t.Errorf("fitModeChar(%q) = %c, want %c", tt.value, got, tt.want)
		}
	}
}

func TestFitModeCode(t *testing.T) {
	choices := []string{"No", "Per-micrograph", "Per-particle"}
	for _, phase := range choices {
		for _, defocus := range choices {
			for _, astig := range choices {
				for _, bfac := range choices {
					code := fitModeCode(phase, defocus, astig, bfac)
					if len(code) != 5 {
						t.Fatalf("code %q is not 5 characters", code)
					}
					if code[3] != 'f' {
						t.Fatalf("code %q: position 3 must always be 'f'", code)
					}
					for i, c := range []byte(code) {
						if c != 'f' && c != 'm' && c != 'p' {
							t.Fatalf("code %q: invalid character %c at %d", code, c, i)
						}
					}
				}
			}
		}
	}
	if got := fitModeCode("Per-micrograph", "Per-particle", "No", "Per-particle"); got != "mpffp" {
		t.Fatalf("got %q, want mpffp", got)
	}
}

func ctfRefineFixture(t *testing.T) (Environment, string, string, string) {
	t.Helper()
	env, root := testEnv(t)
	particles := writeProjectFile(t, root, "Refine3D/job016/run_data.star")
	post := writeStarFile(t, root, "PostProcess/job021/postprocess.star", postprocessWithMask)
	return env, root, particles, post
}

func TestCtfRefineDefocusFit(t *testing.T) {
	env, _, particles, post := ctfRefineFixture(t)

	b := newCtfRefine(env, params.Bag{
		"inputStarFile":       particles,
		"postprocessStarFile": post,
		"fitDefocus":          "Per-particle",
		"fitAstigmatism":      "Per-micrograph",
	})
	cmd := buildCommand(t, b, "CtfRefine/job022")

	for _, want := range []string{
		"relion_ctf_refine",
		"--i Refine3D/job016/run_data.star",
		"--f PostProcess/job021/postprocess.star",
		"--o CtfRefine/job022/",
		"--fit_defocus",
		"--kmin_defocus 30",
		"--fit_mode fpmff",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command missing %q: %s", want, cmd)
		}
	}
	if strings.Contains(cmd, "--fit_beamtilt") || strings.Contains(cmd, "--fit_aniso") {
		t.Errorf("unrequested fits must not appear: %s", cmd)
	}
	if strings.Contains(cmd, "--gpu") {
		t.Errorf("ctf refinement is cpu-only: %s", cmd)
	}
}

func TestCtfRefineBeamTiltAndTrefoil(t *testing.T) {
	env, _, particles, post := ctfRefineFixture(t)

	b := newCtfRefine(env, params.Bag{
		"inputStarFile":       particles,
		"postprocessStarFile": post,
		"fitBeamTilt":         "Yes",
		"fitTrefoil":          "Yes",
	})
	cmd := buildCommand(t, b, "CtfRefine/job022")
	for _, want := range []string{"--fit_beamtilt", "--kmin_tilt 30", "--odd_aberr_max_n 3"} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command missing %q: %s", want, cmd)
		}
	}
	if strings.Contains(cmd, "--fit_defocus") {
		t.Errorf("tilt-only job must not fit defocus: %s", cmd)
	}
}

func TestCtfRefineTrefoilWithoutBeamTiltIsIgnored(t *testing.T) {
	env, _, particles, post := ctfRefineFixture(t)

	b := newCtfRefine(env, params.Bag{
		"inputStarFile":       particles,
		"postprocessStarFile": post,
		"fitDefocus":          "Per-particle",
		"fitTrefoil":          "Yes",
	})
	cmd := buildCommand(t, b, "CtfRefine/job022")
	if strings.Contains(cmd, "--odd_aberr_max_n") {
		t.Errorf("trefoil without beam tilt must be dropped: %s", cmd)
	}
}

func TestCtfRefineAnisotropicMagnification(t *testing.T) {
	env, _, particles, post := ctfRefineFixture(t)

	b := newCtfRefine(env, params.Bag{
		"inputStarFile":               particles,
		"postprocessStarFile":         post,
		"fitAnisotropicMagnification": "Yes",
	})
	cmd := buildCommand(t, b, "CtfRefine/job022")
	if !strings.Contains(cmd, "--fit_aniso") || !strings.Contains(cmd, "--kmin_mag 30") {
		t.Errorf("missing anisotropic magnification flags: %s", cmd)
	}
}

func TestCtfRefineRejectsPostprocessWithoutMask(t *testing.T) {
	env, root := testEnv(t)
	particles := writeProjectFile(t, root, "Refine3D/job016/run_data.star")
	post := writeStarFile(t, root, "PostProcess/job021/postprocess.star", postprocessWithoutMask)

	b := newCtfRefine(env, params.Bag{
		"inputStarFile":       particles,
		"postprocessStarFile": post,
		"fitDefocus":          "Per-particle",
	})
	if res := b.Validate(); res.Valid || !strings.Contains(res.Err, "solvent mask") {
		t.Fatalf("got %+v, want solvent mask error", res)
	}
}

func TestCtfRefineRequiresAtLeastOneMode(t *testing.T) {
	env, _, particles, post := ctfRefineFixture(t)

	b := newCtfRefine(env, params.Bag{
		"inputStarFile":       particles,
		"postprocessStarFile": post,
	})
	if res := b.Validate(); res.Valid || !strings.Contains(res.Err, "at least one refinement mode") {
		t.Fatalf("got %+v, want mode selection error", res)
	}
}
