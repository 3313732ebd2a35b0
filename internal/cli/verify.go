package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotypfmt/internal/logging"
	"github.com/yaklabco/gotypfmt/internal/ui/pretty"
	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/pipeline"
	"github.com/yaklabco/gotypfmt/pkg/reporter"
	"github.com/yaklabco/gotypfmt/pkg/runner"
	"github.com/yaklabco/gotypfmt/pkg/verify"
)

type verifyFlags struct {
	jobs     int
	markdown bool
	exclude  []string
}

func newVerifyCommand(globals *globalFlags) *cobra.Command {
	flags := &verifyFlags{}

	cmd := &cobra.Command{
		Use:   "verify [paths...]",
		Short: "Check that formatting is stable and keeps document structure",
		Long: `Format every input twice and check that the second pass changes nothing
and that the formatted document parses to the same structure as the
original, ignoring whitespace and trailing commas. Files are never written.

Exits 1 if any input fails.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args, globals, flags)
		},
	}

	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "also verify typ/typst code blocks in Markdown files")
	cmd.Flags().StringArrayVar(&flags.exclude, "exclude", nil, "glob of files or directories to skip (repeatable)")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string, globals *globalFlags, flags *verifyFlags) error {
	ctx := commandContext(cmd)

	layer := &config.Layer{}
	if cmd.Flags().Changed("jobs") {
		layer.Jobs = config.Ptr(flags.jobs)
	}
	if cmd.Flags().Changed("markdown") || cmd.Flags().Changed("exclude") {
		layer.Files = &config.FilesLayer{Exclude: flags.exclude, Markdown: config.Ptr(flags.markdown)}
	}

	stdin, err := readsStdin(cmd, args)
	if err != nil {
		return err
	}

	cfg, workDir, err := loadConfig(cmd, globals, layer, config.ModeCheck, reporter.FormatText)
	if err != nil {
		return err
	}
	opts := verify.Options{Format: cfg.FormatConfig, Jobs: cfg.Jobs}

	var results []verify.Result
	if stdin {
		content, err := readStdin(cmd)
		if err != nil {
			return err
		}
		var res verify.Result
		if stdinLanguage(cfg) == pipeline.LanguageMarkdown {
			res = verify.Markdown(content, opts)
		} else {
			res = verify.Source(content, opts)
		}
		res.Path = stdinPath
		results = []verify.Result{res}
	} else {
		runOpts := runner.OptionsFromConfig(cfg, args)
		runOpts.WorkingDir = workDir

		targets, err := runner.Discover(ctx, runOpts)
		if err != nil {
			return fmt.Errorf("discover files: %w", err)
		}
		logging.FromContext(ctx).Debug("verifying", logging.FieldFiles, len(targets))

		results, err = verify.Files(ctx, targets, opts)
		if err != nil {
			return err
		}
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, cmd.OutOrStdout()))
	if err := writeVerifyReport(cmd, styles, results, workDir); err != nil {
		return err
	}

	if len(verify.Failed(results)) > 0 {
		return fmt.Errorf("%w: %w", ErrVerifyFailed, verify.Err(results))
	}
	return nil
}

func writeVerifyReport(cmd *cobra.Command, styles *pretty.Styles, results []verify.Result, workDir string) error {
	bw := bufio.NewWriter(cmd.OutOrStdout())

	failed := verify.Failed(results)
	for _, res := range failed {
		path := reporter.DisplayPath(workDir, res.Path)
		status := res.Problem.String()
		if res.Err != nil {
			status += ": " + res.Err.Error()
		}
		fmt.Fprintf(bw, "%s: %s\n", styles.FilePath.Render(path), styles.Error.Render(status))
		if res.Detail != "" {
			for _, line := range strings.Split(strings.TrimSuffix(res.Detail, "\n"), "\n") {
				fmt.Fprintln(bw, styles.Dim.Render("    "+line))
			}
		}
	}

	fileWord := "files"
	if len(results) == 1 {
		fileWord = "file"
	}
	summary := fmt.Sprintf("Verified %d %s", len(results), fileWord)
	if len(failed) > 0 {
		fmt.Fprintln(bw, styles.Failure.Render(fmt.Sprintf("%s, %d failed", summary, len(failed))))
	} else {
		fmt.Fprintln(bw, styles.Success.Render(summary))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: write report: %w", ErrIO, err)
	}
	return nil
}
