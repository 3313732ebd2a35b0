package runner

import (
	"time"

	"github.com/yaklabco/gotypfmt/pkg/pipeline"
)

// FileOutcome is the processing outcome of one discovered file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Language is how the file was formatted.
	Language pipeline.Language

	// Result is nil when Error is set.
	Result *pipeline.Result

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesChanged    int
	FilesWritten    int
	FilesSkipped    int
	FilesErrored    int

	// Additions and Deletions sum the diff line counts, when diffs were
	// computed.
	Additions int
	Deletions int

	// Blocks counts the Typst blocks formatted inside Markdown files.
	Blocks int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per discovered file, sorted by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// NewResult aggregates outcomes that were produced outside Run, such as
// standard input.
func NewResult(outcomes ...FileOutcome) *Result {
	result := &Result{}
	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	result.Stats.FilesDiscovered = len(outcomes)
	return result
}

// HasChanges reports whether any file needed formatting.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// Errors returns the per-file errors in path order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, f := range r.Files {
		if f.Error != nil {
			errs = append(errs, f.Error)
		}
	}
	return errs
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	res := outcome.Result
	if res == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.Blocks += res.Blocks
	if res.Changed {
		r.Stats.FilesChanged++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
	if res.Skipped {
		r.Stats.FilesSkipped++
	}
	if res.Diff != nil {
		r.Stats.Additions += res.Diff.Additions
		r.Stats.Deletions += res.Diff.Deletions
	}
}
