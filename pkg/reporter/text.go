package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gotypfmt/internal/ui/pretty"
	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/runner"
)

// TextReporter lists one status line per file followed by a summary line.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to format."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := r.styles.FilePath.Render(DisplayPath(r.opts.WorkingDir, file.Path))

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			continue
		}

		res := file.Result
		if res == nil {
			continue
		}

		var status string
		switch {
		case res.Skipped:
			status = r.styles.Warning.Render(res.Summary())
		case res.Written:
			status = r.styles.Success.Render(res.Summary())
		case res.Changed:
			status = r.styles.Failure.Render(res.Summary())
		case r.opts.Verbose:
			status = r.styles.Dim.Render(res.Summary())
		default:
			continue
		}

		if res.Blocks > 0 {
			status += r.styles.Language.Render(fmt.Sprintf(" (%d typst %s)", res.Blocks, blockWord(res.Blocks)))
		}
		fmt.Fprintf(r.bw, "%s: %s\n", path, status)
	}

	if r.opts.ShowSummary {
		mode := r.opts.Mode
		if mode == "" {
			mode = config.ModeWrite
		}
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, mode))
	}

	return unformatted(result), nil
}

func blockWord(n int) string {
	if n == 1 {
		return "block"
	}
	return "blocks"
}
