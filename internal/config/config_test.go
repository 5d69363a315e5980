package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be reported missing")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Slurm.MPILauncher != "mpirun" || cfg.Slurm.MPIProcsFlag != "-n" {
		t.Fatalf("unexpected slurm defaults: %+v", cfg.Slurm)
	}
	if cfg.Tools.CtfFind != "ctffind" {
		t.Fatalf("unexpected ctffind default %q", cfg.Tools.CtfFind)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
projects_dir = "` + dir + `/projects"

[slurm]
mpi_launcher = " srun "

[tools]
ctffind = "/opt/ctffind5/bin/ctffind5"

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Slurm.MPILauncher != "srun" {
		t.Fatalf("launcher not trimmed: %q", cfg.Slurm.MPILauncher)
	}
	if cfg.Tools.CtfFind != "/opt/ctffind5/bin/ctffind5" {
		t.Fatalf("ctffind not honored: %q", cfg.Tools.CtfFind)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format not canonicalized: %q", cfg.Logging.Format)
	}
	if !filepath.IsAbs(cfg.Paths.ProjectsDir) {
		t.Fatalf("projects dir not absolute: %q", cfg.Paths.ProjectsDir)
	}
}

func TestLauncherPrefix(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := []string{"mpirun", "-n", "5"}
	if got := cfg.LauncherPrefix(5); !reflect.DeepEqual(got, want) {
		t.Fatalf("LauncherPrefix = %v, want %v", got, want)
	}
}

func TestHistoryPathDefaultsToLogDir(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := cfg.HistoryPath(); got != filepath.Join(cfg.Paths.LogDir, "history.db") {
		t.Fatalf("unexpected history path %q", got)
	}
	cfg.History.Path = "/var/lib/cryoprocess/history.db"
	if got := cfg.HistoryPath(); got != "/var/lib/cryoprocess/history.db" {
		t.Fatalf("explicit history path not honored: %q", got)
	}
}

func TestRelionBinaryHonorsBinDir(t *testing.T) {
	cfg := Default()
	if got := cfg.RelionBinary("relion_refine"); got != "relion_refine" {
		t.Fatalf("expected bare binary name, got %q", got)
	}
	cfg.Tools.RelionBinDir = "/opt/relion/bin"
	if got := cfg.RelionBinary("relion_refine"); got != "/opt/relion/bin/relion_refine" {
		t.Fatalf("expected joined path, got %q", got)
	}
}

func TestValidateRejectsEmptyLauncher(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.Slurm.MPILauncher = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "mpi_launcher") {
		t.Fatalf("expected mpi_launcher validation error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[slurm]") {
		t.Fatal("sample config missing slurm section")
	}
}
