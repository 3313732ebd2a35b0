// Package cli provides the Cobra command structure for gotypfmt.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotypfmt/internal/logging"
	"github.com/yaklabco/gotypfmt/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root gotypfmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}
	flags := &formatFlags{}

	rootCmd := &cobra.Command{
		Use:   "gotypfmt [flags] [path...]",
		Short: "A formatter for Typst documents",
		Long: `gotypfmt formats Typst documents.

It reflows markup, spaces code and math, breaks long argument lists, and
keeps regions between "// format:off" and "// format:on" untouched. Files
are rewritten in place unless --check, --diff or --stdout is given. With no
paths and a piped standard input, or with the path "-", it formats standard
input to standard output.`,
		Example: `  gotypfmt                      Format .typ files under the current directory
  gotypfmt thesis.typ chapters/ Format a file and a directory
  gotypfmt --check .            Exit 1 if anything needs formatting
  gotypfmt --diff main.typ      Show what would change
  cat main.typ | gotypfmt       Format standard input
  gotypfmt -C                   Write typstfmt-config.toml with the defaults`,
		Version:           info.Version,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: globals.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, globals, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("gotypfmt %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date))
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", pretty.ColorAuto,
		"colorize output: auto, always, never")

	addFormatFlags(rootCmd, flags)

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand(globals))
	rootCmd.AddCommand(newVerifyCommand(globals))
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd, &globals.color)

	return rootCmd
}

// setup validates the global flags and installs the context logger.
func (g *globalFlags) setup(cmd *cobra.Command, _ []string) error {
	if !pretty.IsValidColorMode(g.color) {
		return usageErrorf("invalid --color %q: must be auto, always or never", g.color)
	}

	level := "warn"
	if g.debug {
		level = "debug"
		logging.SetLevel(level)
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
	cmd.SetContext(logging.WithLogger(commandContext(cmd), logger))
	return nil
}

// commandContext returns the command's context, or a background context
// when the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
