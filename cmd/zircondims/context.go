package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"zircon-dims/internal/config"
	"zircon-dims/internal/logging"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	config *config.Config
	logger *slog.Logger
	runID  string
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

// init loads the configuration and builds the run logger. Flags override the
// config file's log settings.
func (c *commandContext) init(logOut io.Writer) error {
	cfg, err := config.LoadConfig(strings.TrimSpace(*c.configFlag))
	if err != nil {
		return err
	}

	opts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logOut}
	if v := strings.TrimSpace(*c.logLevelFlag); v != "" {
		opts.Level = v
	}
	if v := strings.TrimSpace(*c.logFormatFlag); v != "" {
		opts.Format = v
	}
	base, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	c.config = cfg
	c.logger, c.runID = logging.WithRunID(base)
	return nil
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
