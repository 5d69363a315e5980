package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/krpothula/cryoprocess-sub006/internal/compiler"
	"github.com/krpothula/cryoprocess-sub006/internal/config"
	"github.com/krpothula/cryoprocess-sub006/internal/history"
	"github.com/krpothula/cryoprocess-sub006/internal/logging"
)

type commandContext struct {
	configFlag  *string
	projectFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, projectFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		projectFlag: projectFlag,
	}
}

func (c *commandContext) configPathValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// projectRoot resolves the project directory the compiler anchors
// relative paths to. A bare name is taken relative to the configured
// projects directory.
func (c *commandContext) projectRoot() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}

	var project string
	if c.projectFlag != nil {
		project = strings.TrimSpace(*c.projectFlag)
	}
	if project == "" {
		return cfg.Paths.ProjectsDir, nil
	}
	if strings.HasPrefix(project, "~") || filepath.IsAbs(project) {
		return config.ExpandPath(project)
	}
	return filepath.Join(cfg.Paths.ProjectsDir, project), nil
}

func (c *commandContext) newCompiler() (*compiler.Compiler, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	root, err := c.projectRoot()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return compiler.New(cfg, root, logger)
}

// openHistory returns the compile history store, or nil when history is
// disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.HistoryPath())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
