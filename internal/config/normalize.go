package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeSlurm()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ProjectsDir) == "" {
		if value, ok := os.LookupEnv("CRYOPROCESS_PROJECTS_DIR"); ok {
			c.Paths.ProjectsDir = strings.TrimSpace(value)
		} else {
			c.Paths.ProjectsDir = defaultProjectsDir
		}
	}
	if c.Paths.ProjectsDir, err = expandPath(c.Paths.ProjectsDir); err != nil {
		return fmt.Errorf("paths.projects_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = defaultScratchDir
	}
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	var err error
	c.Tools.RelionBinDir = strings.TrimSpace(c.Tools.RelionBinDir)
	if c.Tools.RelionBinDir != "" {
		if c.Tools.RelionBinDir, err = expandPath(c.Tools.RelionBinDir); err != nil {
			return fmt.Errorf("tools.relion_bin_dir: %w", err)
		}
	}
	c.Tools.CtfFind = strings.TrimSpace(c.Tools.CtfFind)
	if c.Tools.CtfFind == "" {
		c.Tools.CtfFind = defaultCtfFind
	}
	c.Tools.Gctf = strings.TrimSpace(c.Tools.Gctf)
	if c.Tools.Gctf == "" {
		c.Tools.Gctf = defaultGctf
	}
	c.Tools.MotionCor2 = strings.TrimSpace(c.Tools.MotionCor2)
	if c.Tools.MotionCor2 == "" {
		c.Tools.MotionCor2 = defaultMotionCor2
	}
	c.Tools.DynaMight = strings.TrimSpace(c.Tools.DynaMight)
	if c.Tools.DynaMight == "" {
		c.Tools.DynaMight = defaultDynaMight
	}
	return nil
}

func (c *Config) normalizeSlurm() {
	c.Slurm.MPILauncher = strings.TrimSpace(c.Slurm.MPILauncher)
	if c.Slurm.MPILauncher == "" {
		c.Slurm.MPILauncher = defaultMPILauncher
	}
	c.Slurm.MPIProcsFlag = strings.TrimSpace(c.Slurm.MPIProcsFlag)
	if c.Slurm.MPIProcsFlag == "" {
		c.Slurm.MPIProcsFlag = defaultMPIProcsFlag
	}
}

func (c *Config) normalizeHistory() {
	c.History.Path = strings.TrimSpace(c.History.Path)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
