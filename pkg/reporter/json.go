package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gotypfmt/pkg/runner"
)

// jsonVersion is the schema version of the JSON report.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Mode    string           `json:"mode"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path       string `json:"path"`
	Language   string `json:"language"`
	Status     string `json:"status"`
	Changed    bool   `json:"changed"`
	Written    bool   `json:"written,omitempty"`
	Backup     string `json:"backup,omitempty"`
	Additions  int    `json:"additions,omitempty"`
	Deletions  int    `json:"deletions,omitempty"`
	Blocks     int    `json:"blocks,omitempty"`
	DurationMS int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int   `json:"filesChecked"`
	FilesChanged int   `json:"filesChanged"`
	FilesWritten int   `json:"filesWritten"`
	FilesSkipped int   `json:"filesSkipped"`
	FilesErrored int   `json:"filesErrored"`
	Additions    int   `json:"additions"`
	Deletions    int   `json:"deletions"`
	Blocks       int   `json:"blocks"`
	DurationMS   int64 `json:"durationMs"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := JSONOutput{
		Version: jsonVersion,
		Mode:    string(r.opts.Mode),
		Files:   []JSONFileResult{},
	}

	if result != nil {
		for _, file := range result.Files {
			output.Files = append(output.Files, r.fileResult(file))
		}
		stats := result.Stats
		output.Summary = JSONSummary{
			FilesChecked: stats.FilesProcessed,
			FilesChanged: stats.FilesChanged,
			FilesWritten: stats.FilesWritten,
			FilesSkipped: stats.FilesSkipped,
			FilesErrored: stats.FilesErrored,
			Additions:    stats.Additions,
			Deletions:    stats.Deletions,
			Blocks:       stats.Blocks,
			DurationMS:   stats.Duration.Milliseconds(),
		}
	}

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return unformatted(result), nil
}

func (r *JSONReporter) fileResult(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{
		Path:     DisplayPath(r.opts.WorkingDir, file.Path),
		Language: file.Language.String(),
	}
	if file.Error != nil {
		out.Status = "error"
		out.Error = file.Error.Error()
		return out
	}

	res := file.Result
	if res == nil {
		return out
	}
	out.Status = res.Summary()
	out.Changed = res.Changed
	out.Written = res.Written
	out.Backup = res.BackupPath
	out.Blocks = res.Blocks
	out.DurationMS = res.Duration.Milliseconds()
	if res.Diff != nil {
		out.Additions = res.Diff.Additions
		out.Deletions = res.Diff.Deletions
	}
	return out
}
