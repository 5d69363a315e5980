package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProjectsDir string `toml:"projects_dir"`
	ScratchDir  string `toml:"scratch_dir"`
	LogDir      string `toml:"log_dir"`
}

// Slurm contains settings for how parallel jobs are launched on the
// cluster. The launcher prefix is prepended to every MPI binary.
type Slurm struct {
	MPILauncher  string `toml:"mpi_launcher"`
	MPIProcsFlag string `toml:"mpi_procs_flag"`
}

// Tools contains executable locations for the external processing
// programs. Empty relion_bin_dir means the relion_* binaries are on PATH.
type Tools struct {
	RelionBinDir string `toml:"relion_bin_dir"`
	CtfFind      string `toml:"ctffind"`
	Gctf         string `toml:"gctf"`
	MotionCor2   string `toml:"motioncor2"`
	DynaMight    string `toml:"dynamight"`
}

// History contains configuration for the compile history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Default: <log_dir>/history.db
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the command compiler
// and its CLI.
//
// Sections by subsystem:
//   - Paths: project root, scratch and log directories
//   - Slurm: MPI launcher prefix for parallel binaries
//   - Tools: external processing executables
//   - History: compile history database
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Slurm   Slurm   `toml:"slurm"`
	Tools   Tools   `toml:"tools"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default
// configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cryoprocess/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cryoprocess.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// RelionBinary returns the path of a relion_* executable, honoring the
// configured bin dir.
func (c *Config) RelionBinary(name string) string {
	if strings.TrimSpace(c.Tools.RelionBinDir) == "" {
		return name
	}
	return filepath.Join(c.Tools.RelionBinDir, name)
}

// LauncherPrefix returns the tokens prepended to an MPI binary for the
// given process count, e.g. ["mpirun", "-n", "8"].
func (c *Config) LauncherPrefix(procs int) []string {
	return []string{c.Slurm.MPILauncher, c.Slurm.MPIProcsFlag, fmt.Sprintf("%d", procs)}
}

// HistoryPath returns the compile history database location.
func (c *Config) HistoryPath() string {
	if strings.TrimSpace(c.History.Path) != "" {
		return c.History.Path
	}
	return filepath.Join(c.Paths.LogDir, "history.db")
}

// EnsureDirectories creates the directories the tool writes to. The
// scratch directory is cluster-managed and never created here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ProjectsDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
