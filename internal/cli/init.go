package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotypfmt/internal/logging"
	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/fsutil"
)

// defaultYAMLConfigName is the file written by "init --format yaml".
const defaultYAMLConfigName = ".gotypfmt.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gotypfmt configuration file",
		Long: `Create a configuration file in the current directory with the default
formatting options.

Examples:
  gotypfmt init                       Create typstfmt-config.toml
  gotypfmt init --full                Document every option, including files and backups
  gotypfmt init --format yaml         Create .gotypfmt.yml instead
  gotypfmt init --output custom.toml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "generate the full template with every option documented")
	cmd.Flags().StringVar(&flags.format, "format", string(config.TemplateTOML), "file format: toml or yaml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: "+config.DefaultFileName+" or "+defaultYAMLConfigName+")")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	format := config.TemplateFormat(flags.format)
	if format != config.TemplateTOML && format != config.TemplateYAML {
		return usageErrorf("invalid format %q: must be toml or yaml", flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = config.DefaultFileName
		if format == config.TemplateYAML {
			outputPath = defaultYAMLConfigName
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return usageErrorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full, Format: format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(commandContext(cmd), absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'gotypfmt --check' to see which files the configuration would change")

	return nil
}
