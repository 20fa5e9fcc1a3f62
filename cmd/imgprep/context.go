package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"imgprep/internal/config"
	"imgprep/internal/faults"
	"imgprep/internal/logging"
)

type commandContext struct {
	configFlag *string
	overrides  *config.Overrides

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string, overrides *config.Overrides) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		overrides:  overrides,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = faults.Wrap(faults.ErrConfiguration, "config", "load", resolved, err)
			return
		}
		if c.overrides != nil {
			if err := cfg.ApplyOverrides(*c.overrides); err != nil {
				c.configErr = faults.Wrap(faults.ErrConfiguration, "config", "flags", "", err)
				return
			}
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// logger builds the run logger with console output on the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfigWriter(cfg, cmd.ErrOrStderr())
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
