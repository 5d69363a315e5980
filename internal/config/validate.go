package config

import (
	"errors"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSlurm(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.ProjectsDir == "" {
		return errors.New("paths.projects_dir must be set")
	}
	if !filepath.IsAbs(c.Paths.ProjectsDir) {
		return errors.New("paths.projects_dir must be absolute")
	}
	return nil
}

func (c *Config) validateSlurm() error {
	if c.Slurm.MPILauncher == "" {
		return errors.New("slurm.mpi_launcher must be set")
	}
	if c.Slurm.MPIProcsFlag == "" {
		return errors.New("slurm.mpi_procs_flag must be set")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && c.HistoryPath() == "" {
		return errors.New("history.path must resolve when history.enabled is true")
	}
	return nil
}
