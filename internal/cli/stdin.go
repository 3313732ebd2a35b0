package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/fsutil"
	"github.com/yaklabco/gotypfmt/pkg/pipeline"
	"github.com/yaklabco/gotypfmt/pkg/reporter"
	"github.com/yaklabco/gotypfmt/pkg/runner"
)

// stdinPath names standard input in paths and reports.
const stdinPath = "-"

// readsStdin reports whether the input is standard input: the single path
// "-", or no paths while standard input is not a terminal.
func readsStdin(cmd *cobra.Command, args []string) (bool, error) {
	for _, arg := range args {
		if arg == stdinPath && len(args) > 1 {
			return false, usageErrorf("%q cannot be combined with other paths", stdinPath)
		}
	}
	if len(args) == 1 && args[0] == stdinPath {
		return true, nil
	}
	if len(args) > 0 {
		return false, nil
	}

	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return true, nil
	}
	return !term.IsTerminal(int(f.Fd())), nil
}

func readStdin(cmd *cobra.Command) (string, error) {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("%w: read standard input: %w", ErrIO, err)
	}
	return string(content), nil
}

// stdinLanguage treats standard input as Markdown when --markdown is set.
func stdinLanguage(cfg *config.Config) pipeline.Language {
	if cfg.Files.Markdown {
		return pipeline.LanguageMarkdown
	}
	return pipeline.LanguageTypst
}

// runStdin formats standard input. Write and stdout modes print the result
// (or write it to --output); check and diff modes report like a file run.
func runStdin(cmd *cobra.Command, cfg *config.Config, globals *globalFlags, flags *formatFlags) error {
	ctx := commandContext(cmd)

	content, err := readStdin(cmd)
	if err != nil {
		return err
	}

	lang := stdinLanguage(cfg)
	res, err := pipeline.ProcessContent(ctx, stdinPath, content, lang, pipeline.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	switch cfg.Mode {
	case config.ModeCheck, config.ModeDiff:
		result := runner.NewResult(runner.FileOutcome{Path: stdinPath, Language: lang, Result: res})
		rep, err := reporter.New(reporter.Options{
			Writer:      cmd.OutOrStdout(),
			ErrorWriter: cmd.ErrOrStderr(),
			Format:      cfg.Output,
			Mode:        cfg.Mode,
			Color:       globals.color,
			ShowSummary: true,
			Verbose:     flags.verbose,
			Compact:     flags.compact,
		})
		if err != nil {
			return fmt.Errorf("create reporter: %w", err)
		}
		if _, err := rep.Report(ctx, result); err != nil {
			return fmt.Errorf("%w: report results: %w", ErrIO, err)
		}
		return resultError(result, cfg.Mode)
	default:
		if flags.output != "" {
			if err := fsutil.WriteAtomic(ctx, flags.output, []byte(res.Formatted), fsutil.DefaultFileMode); err != nil {
				return fmt.Errorf("%w: %w", ErrIO, err)
			}
			return nil
		}
		if _, err := io.WriteString(cmd.OutOrStdout(), res.Formatted); err != nil {
			return fmt.Errorf("%w: write output: %w", ErrIO, err)
		}
		return nil
	}
}
