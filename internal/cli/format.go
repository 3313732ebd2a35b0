package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gotypfmt/internal/configloader"
	"github.com/yaklabco/gotypfmt/internal/logging"
	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/fsutil"
	"github.com/yaklabco/gotypfmt/pkg/reporter"
	"github.com/yaklabco/gotypfmt/pkg/runner"
)

type formatFlags struct {
	check  bool
	diff   bool
	stdout bool
	output string

	makeDefaultConfig bool
	force             bool

	indentWidth   int
	maxLineLength int
	noWrap        bool
	packArgs      bool
	useTabs       bool

	jobs     int
	exclude  []string
	markdown bool
	backup   bool

	format  string
	verbose bool
	compact bool
}

func addFormatFlags(cmd *cobra.Command, flags *formatFlags) {
	fs := cmd.Flags()

	fs.BoolVar(&flags.check, "check", false, "report files that need formatting and exit 1 if any")
	fs.BoolVar(&flags.diff, "diff", false, "print a unified diff of the changes instead of writing")
	fs.BoolVar(&flags.stdout, "stdout", false, "print formatted content instead of writing files")
	fs.StringVarP(&flags.output, "output", "o", "", "write the formatted input to `FILE`")

	fs.BoolVarP(&flags.makeDefaultConfig, "make-default-config", "C", false,
		"write "+config.DefaultFileName+" with the default options")
	fs.BoolVar(&flags.force, "force", false, "overwrite an existing config file")

	fs.IntVar(&flags.indentWidth, "indent-width", config.DefaultIndentWidth, "columns per indentation level")
	fs.IntVar(&flags.maxLineLength, "max-line-length", config.DefaultMaxLineLength, "preferred maximum line width")
	fs.BoolVar(&flags.noWrap, "no-wrap", false, "keep markup line breaks instead of reflowing text")
	fs.BoolVar(&flags.packArgs, "pack-args", false, "pack broken arguments several per line")
	fs.BoolVar(&flags.useTabs, "use-tabs", false, "indent with tabs")

	fs.IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	fs.StringArrayVar(&flags.exclude, "exclude", nil, "glob of files or directories to skip (repeatable)")
	fs.BoolVar(&flags.markdown, "markdown", false, "also format typ/typst code blocks in Markdown files")
	fs.BoolVar(&flags.backup, "backup", false, "keep a backup of every rewritten file")

	fs.StringVar(&flags.format, "format", string(reporter.FormatText), "report format: text, json, diff, summary")
	fs.BoolVar(&flags.verbose, "verbose", false, "also list files that are already formatted")
	fs.BoolVar(&flags.compact, "compact", false, "minify JSON output")
}

// mode resolves the run mode from the mutually exclusive mode flags.
func (f *formatFlags) mode() (config.Mode, error) {
	var set []string
	mode := config.ModeWrite
	if f.check {
		set, mode = append(set, "--check"), config.ModeCheck
	}
	if f.diff {
		set, mode = append(set, "--diff"), config.ModeDiff
	}
	if f.stdout {
		set, mode = append(set, "--stdout"), config.ModeStdout
	}
	if f.output != "" {
		set, mode = append(set, "--output"), config.ModeStdout
	}
	if len(set) > 1 {
		return "", usageErrorf("%s cannot be combined with %s", set[0], set[1])
	}
	return mode, nil
}

// layer collects the options set on the command line.
func (f *formatFlags) layer(fs *pflag.FlagSet) *config.Layer {
	layer := &config.Layer{}
	if fs.Changed("indent-width") {
		layer.IndentWidth = config.Ptr(f.indentWidth)
	}
	if fs.Changed("max-line-length") {
		layer.MaxLineLength = config.Ptr(f.maxLineLength)
	}
	if fs.Changed("no-wrap") {
		layer.WrapText = config.Ptr(!f.noWrap)
	}
	if fs.Changed("pack-args") {
		layer.PackConsecutiveArgs = config.Ptr(f.packArgs)
	}
	if fs.Changed("use-tabs") {
		layer.UseTabs = config.Ptr(f.useTabs)
	}
	if fs.Changed("jobs") {
		layer.Jobs = config.Ptr(f.jobs)
	}
	if fs.Changed("exclude") || fs.Changed("markdown") {
		layer.Files = &config.FilesLayer{Exclude: f.exclude}
		if fs.Changed("markdown") {
			layer.Files.Markdown = config.Ptr(f.markdown)
		}
	}
	if fs.Changed("backup") {
		layer.Backups = &config.BackupsLayer{Enabled: config.Ptr(f.backup)}
	}
	return layer
}

// reportFormat resolves --format; --diff implies the diff report unless a
// format was chosen explicitly.
func (f *formatFlags) reportFormat(fs *pflag.FlagSet, mode config.Mode) (reporter.Format, error) {
	if !fs.Changed("format") && mode == config.ModeDiff {
		return reporter.FormatDiff, nil
	}
	format, err := reporter.ParseFormat(f.format)
	if err != nil {
		return "", usageErrorf("%v", err)
	}
	return format, nil
}

func runFormat(cmd *cobra.Command, args []string, globals *globalFlags, flags *formatFlags) error {
	if flags.makeDefaultConfig {
		return runMakeDefaultConfig(args, flags.force)
	}

	mode, err := flags.mode()
	if err != nil {
		return err
	}
	format, err := flags.reportFormat(cmd.Flags(), mode)
	if err != nil {
		return err
	}

	stdin, err := readsStdin(cmd, args)
	if err != nil {
		return err
	}
	if flags.output != "" && !stdin && len(args) != 1 {
		return usageErrorf("--output needs exactly one input")
	}

	cfg, workDir, err := loadConfig(cmd, globals, flags.layer(cmd.Flags()), mode, format)
	if err != nil {
		return err
	}

	if stdin {
		return runStdin(cmd, cfg, globals, flags)
	}

	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	logger.Debug("starting format run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New().Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("format run: %w", err)
	}

	if cfg.Mode == config.ModeStdout {
		if err := writeFormatted(cmd, result, flags.output); err != nil {
			return err
		}
	} else {
		rep, err := reporter.New(reporter.Options{
			Writer:      cmd.OutOrStdout(),
			ErrorWriter: cmd.ErrOrStderr(),
			Format:      cfg.Output,
			Mode:        cfg.Mode,
			Color:       globals.color,
			ShowSummary: true,
			Verbose:     flags.verbose,
			Compact:     flags.compact,
			WorkingDir:  workDir,
		})
		if err != nil {
			return fmt.Errorf("create reporter: %w", err)
		}
		if _, err := rep.Report(ctx, result); err != nil {
			return fmt.Errorf("%w: report results: %w", ErrIO, err)
		}
	}

	return resultError(result, cfg.Mode)
}

// resultError turns the run outcome into the command error.
func resultError(result *runner.Result, mode config.Mode) error {
	if result.HasErrors() {
		return fmt.Errorf("%w: %w", ErrFilesFailed, errors.Join(result.Errors()...))
	}
	if mode == config.ModeCheck && result.HasChanges() {
		return ErrUnformatted
	}
	return nil
}

// writeFormatted prints the formatted content of every file in order, or
// writes the single file's content to output. Failed files are logged.
func writeFormatted(cmd *cobra.Command, result *runner.Result, output string) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	for _, file := range result.Files {
		if file.Error != nil {
			logger.Error("format failed", logging.FieldPath, file.Path, logging.FieldError, file.Error)
			continue
		}
		if output != "" {
			if err := fsutil.WriteAtomic(ctx, output, []byte(file.Result.Formatted), fsutil.DefaultFileMode); err != nil {
				return fmt.Errorf("%w: %w", ErrIO, err)
			}
			continue
		}
		if _, err := io.WriteString(cmd.OutOrStdout(), file.Result.Formatted); err != nil {
			return fmt.Errorf("%w: write output: %w", ErrIO, err)
		}
	}
	return nil
}

func runMakeDefaultConfig(args []string, force bool) error {
	if len(args) > 0 {
		return usageErrorf("--make-default-config takes no paths")
	}

	path := config.DefaultFileName
	if err := configloader.WriteDefaultConfig(path, force); err != nil {
		if errors.Is(err, configloader.ErrConfigExists) {
			return usageErrorf("%v", err)
		}
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	logging.NewInteractive().Info("created configuration file", logging.FieldPath, abs)
	return nil
}
