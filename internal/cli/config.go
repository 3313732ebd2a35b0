package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotypfmt/internal/configloader"
	"github.com/yaklabco/gotypfmt/internal/logging"
	"github.com/yaklabco/gotypfmt/pkg/config"
)

// loadConfig resolves the configuration for a command run in the current
// working directory and logs the loader warnings.
func loadConfig(cmd *cobra.Command, globals *globalFlags, layer *config.Layer, mode config.Mode, output config.OutputFormat) (*config.Config, string, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: globals.configPath,
		CLILayer:     layer,
		Mode:         mode,
		Output:       output,
	})
	if err != nil {
		return nil, "", fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if loadResult.Paths.Root != "" {
		logger.Debug("project root", logging.FieldPath, loadResult.Paths.Root)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldMode, cfg.Mode,
		logging.FieldIndent, cfg.IndentWidth,
		logging.FieldMaxLine, cfg.MaxLineLength,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}
