package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gotypfmt/internal/ui/pretty"
	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/diff"
	"github.com/yaklabco/gotypfmt/pkg/runner"
)

// Table layout constants for summary output.
const (
	tableWidth        = 90
	fileColWidth      = 56 // Width of the file path column.
	statusColWidth    = 18
	numColWidth       = 6
	maxFilePathLength = 54 // Maximum display width of a file path before truncation.
)

// padRight pads a string to the given display width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// padLeft pads a string to the given display width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

// truncatePath shortens long paths from the left, keeping the file name.
func truncatePath(path string) string {
	if runewidth.StringWidth(path) <= maxFilePathLength {
		return path
	}
	return runewidth.TruncateLeft(path, runewidth.StringWidth(path)-maxFilePathLength+1, "…")
}

// SummaryReporter prints a table of the files that changed or failed and
// the run totals.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

type summaryRow struct {
	path      string
	status    string
	additions int
	deletions int
	failed    bool
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	mode := r.opts.Mode
	if mode == "" {
		mode = config.ModeWrite
	}
	if result == nil {
		result = &runner.Result{}
	}

	rows, err := r.collectRows(result)
	if err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		fmt.Fprint(r.out, r.styles.FormatSummaryOneLine(result.Stats, mode))
		return 0, nil
	}

	r.renderFileTable(rows)
	fmt.Fprint(r.out, r.styles.FormatSummary(result.Stats, mode))

	return unformatted(result), nil
}

func (r *SummaryReporter) collectRows(result *runner.Result) ([]summaryRow, error) {
	var rows []summaryRow
	for _, file := range result.Files {
		path := DisplayPath(r.opts.WorkingDir, file.Path)
		if file.Error != nil {
			rows = append(rows, summaryRow{path: path, status: "error", failed: true})
			continue
		}
		res := file.Result
		if res == nil || !res.Changed {
			continue
		}

		d := res.Diff
		if d == nil {
			var err error
			if d, err = diff.Compute(path, res.Original, res.Formatted); err != nil {
				return nil, err
			}
		}
		row := summaryRow{path: path, status: res.Summary()}
		if d != nil {
			row.additions, row.deletions = d.Additions, d.Deletions
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *SummaryReporter) renderFileTable(rows []summaryRow) {
	separator := r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth))

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files"))
	fmt.Fprintln(r.out, separator)
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padRight("Status", statusColWidth)),
		r.styles.TableHeader.Render(padLeft("+", numColWidth)),
		r.styles.TableHeader.Render(padLeft("-", numColWidth)),
	)
	fmt.Fprintln(r.out, separator)

	var additions, deletions int
	for _, row := range rows {
		status := padRight(row.status, statusColWidth)
		styledStatus := r.styles.Failure.Render(status)
		switch {
		case row.failed:
			styledStatus = r.styles.Error.Render(status)
		case strings.HasPrefix(row.status, "formatted"):
			styledStatus = r.styles.Success.Render(status)
		case strings.HasPrefix(row.status, "skipped"):
			styledStatus = r.styles.Warning.Render(status)
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			r.styles.FilePath.Render(padRight(truncatePath(row.path), fileColWidth)),
			styledStatus,
			r.styles.DiffAdd.Render(padLeft(strconv.Itoa(row.additions), numColWidth)),
			r.styles.DiffRemove.Render(padLeft(strconv.Itoa(row.deletions), numColWidth)),
		)
		additions += row.additions
		deletions += row.deletions
	}

	fmt.Fprintln(r.out, separator)
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.Bold.Render(padRight(fmt.Sprintf("Total (%d)", len(rows)), fileColWidth)),
		padRight("", statusColWidth),
		r.styles.DiffAdd.Render(padLeft(strconv.Itoa(additions), numColWidth)),
		r.styles.DiffRemove.Render(padLeft(strconv.Itoa(deletions), numColWidth)),
	)
}
