// Package verify checks the formatter against its own output: formatting a
// document a second time must not change it, and formatting must not change
// the document's syntax tree beyond layout.
package verify

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/diff"
	"github.com/yaklabco/gotypfmt/pkg/format"
	"github.com/yaklabco/gotypfmt/pkg/fsutil"
	"github.com/yaklabco/gotypfmt/pkg/mdembed"
	"github.com/yaklabco/gotypfmt/pkg/pipeline"
	"github.com/yaklabco/gotypfmt/pkg/runner"
)

// Problem classifies a verification failure.
type Problem int

const (
	// ProblemNone means the document passed.
	ProblemNone Problem = iota
	// ProblemError means the document could not be read or formatted.
	ProblemError
	// ProblemIdempotence means a second pass changed the output.
	ProblemIdempotence
	// ProblemStructure means formatting changed the syntax tree.
	ProblemStructure
)

func (p Problem) String() string {
	switch p {
	case ProblemError:
		return "error"
	case ProblemIdempotence:
		return "not idempotent"
	case ProblemStructure:
		return "structure changed"
	default:
		return "ok"
	}
}

// FormatFunc formats a Typst document.
type FormatFunc func(src string, cfg config.FormatConfig) (string, error)

// Options controls verification.
type Options struct {
	// Format holds the formatting options.
	Format config.FormatConfig

	// Jobs bounds the files verified at once. Zero uses GOMAXPROCS.
	Jobs int

	// Formatter defaults to format.FormatSource.
	Formatter FormatFunc
}

func (o Options) formatter() FormatFunc {
	if o.Formatter != nil {
		return o.Formatter
	}
	return format.FormatSource
}

// Result is the verification outcome of one document.
type Result struct {
	Path     string
	Language pipeline.Language
	Problem  Problem

	// Detail locates the failure: a diff between the passes or the first
	// differing syntax node.
	Detail string

	// Err is set for ProblemError.
	Err error
}

// OK reports whether the document passed.
func (r Result) OK() bool {
	return r.Problem == ProblemNone
}

// Source verifies a Typst document.
func Source(src string, opts Options) Result {
	formatFn := opts.formatter()

	once, err := formatFn(src, opts.Format)
	if err != nil {
		return Result{Problem: ProblemError, Err: fmt.Errorf("first pass: %w", err)}
	}
	twice, err := formatFn(once, opts.Format)
	if err != nil {
		return Result{Problem: ProblemError, Err: fmt.Errorf("second pass: %w", err)}
	}

	if once != twice {
		d, err := diff.Compute("formatted", once, twice)
		if err != nil {
			return Result{Problem: ProblemError, Err: err}
		}
		return Result{Problem: ProblemIdempotence, Detail: d.String()}
	}

	want, err := Fingerprint(src)
	if err != nil {
		return Result{Problem: ProblemError, Err: err}
	}
	got, err := Fingerprint(once)
	if err != nil {
		return Result{Problem: ProblemError, Err: err}
	}
	if detail := firstDifference(want, got); detail != "" {
		return Result{Problem: ProblemStructure, Detail: detail}
	}

	return Result{}
}

// Markdown verifies every Typst block of a Markdown document. The first
// failing block decides the result.
func Markdown(src string, opts Options) Result {
	for _, b := range mdembed.FindBlocks([]byte(src)) {
		res := Source(src[b.Start:b.End], opts)
		if res.OK() {
			continue
		}
		res.Language = pipeline.LanguageMarkdown
		if res.Err != nil {
			res.Err = fmt.Errorf("typst block at line %d: %w", b.Line, res.Err)
		} else {
			res.Detail = fmt.Sprintf("typst block at line %d: %s", b.Line, res.Detail)
		}
		return res
	}
	return Result{Language: pipeline.LanguageMarkdown}
}

// Files verifies the targets concurrently. Results keep the order of
// targets. The returned error is only set when ctx is cancelled.
func Files(ctx context.Context, targets []runner.Target, opts Options) ([]Result, error) {
	results := make([]Result, len(targets))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, target := range targets {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = verifyFile(gctx, target, opts)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	return results, nil
}

func verifyFile(ctx context.Context, target runner.Target, opts Options) Result {
	content, _, err := fsutil.ReadFile(ctx, target.Path)
	if err != nil {
		return Result{Path: target.Path, Language: target.Language, Problem: ProblemError, Err: err}
	}

	var res Result
	if target.Language == pipeline.LanguageMarkdown {
		res = Markdown(string(content), opts)
	} else {
		res = Source(string(content), opts)
	}
	res.Path = target.Path
	res.Language = target.Language
	return res
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err joins the failures of results into one error.
func Err(results []Result) error {
	var errs []error
	for _, r := range Failed(results) {
		switch {
		case r.Err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		default:
			errs = append(errs, fmt.Errorf("%s: %s", r.Path, r.Problem))
		}
	}
	return errors.Join(errs...)
}
