package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotypfmt/internal/configloader"
	"github.com/yaklabco/gotypfmt/pkg/config"
)

type configCmdFlags struct {
	format string
	env    bool
}

func newConfigCommand(globals *globalFlags) *cobra.Command {
	flags := &configCmdFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration that a format run in the current directory would
use, after applying the config files, GOTYPFMT_* environment variables and
defaults.`,
		Example: `  gotypfmt config
  gotypfmt config --format yaml
  gotypfmt config --env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.env {
				return writeEnvVars(cmd.OutOrStdout())
			}
			return runShowConfig(cmd, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "toml", "output format: toml or yaml")
	cmd.Flags().BoolVar(&flags.env, "env", false, "list the supported environment variables instead")

	return cmd
}

func runShowConfig(cmd *cobra.Command, globals *globalFlags, flags *configCmdFlags) error {
	var encode func(*config.Config) ([]byte, error)
	switch flags.format {
	case "toml":
		encode = (*config.Config).ToTOML
	case "yaml", "yml":
		encode = (*config.Config).ToYAML
	default:
		return usageErrorf("invalid --format %q: must be toml or yaml", flags.format)
	}

	cfg, _, err := loadConfig(cmd, globals, nil, "", "")
	if err != nil {
		return err
	}

	data, err := encode(cfg)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("%w: write configuration: %w", ErrIO, err)
	}
	return nil
}

func writeEnvVars(w io.Writer) error {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	slices.Sort(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%-*s  %s\n", width, name, vars[name])
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("%w: write variables: %w", ErrIO, err)
	}
	return nil
}
