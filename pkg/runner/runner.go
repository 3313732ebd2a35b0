package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gotypfmt/internal/logging"
	"github.com/yaklabco/gotypfmt/pkg/pipeline"
)

// ProcessFunc processes one file. pipeline.ProcessFile is the default.
type ProcessFunc func(ctx context.Context, path string, lang pipeline.Language, opts pipeline.Options) (*pipeline.Result, error)

// Runner formats discovered files concurrently.
type Runner struct {
	process ProcessFunc
}

// New creates a Runner backed by pipeline.ProcessFile.
func New() *Runner {
	return &Runner{process: pipeline.ProcessFile}
}

// NewWithProcessor creates a Runner that hands every file to process.
func NewWithProcessor(process ProcessFunc) *Runner {
	return &Runner{process: process}
}

// Run discovers the files selected by opts and processes them with at most
// opts.Jobs in flight. Per-file failures are recorded in the outcomes; the
// returned error is reserved for discovery failures and cancellation.
// Outcomes are in path order whatever order the workers finish in.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	targets, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(targets))

	result := &Result{Files: make([]FileOutcome, 0, len(targets))}
	result.Stats.FilesDiscovered = len(targets)
	if len(targets) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(targets))

	outcomes := make([]FileOutcome, len(targets))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, target := range targets {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fctx := logging.WithFields(gctx, logging.FieldPath, target.Path)
			flog := logging.FromContext(fctx)

			outcome := FileOutcome{Path: target.Path, Language: target.Language}
			res, err := r.process(fctx, target.Path, target.Language, opts.Pipeline)
			if err != nil {
				outcome.Error = err
				flog.Debug("file failed", logging.FieldError, err)
			} else {
				outcome.Result = res
				flog.Debug("file processed",
					logging.FieldDuration, res.Duration,
					logging.FieldStatus, res.Summary())
			}
			outcomes[i] = outcome
			return nil
		})
	}

	waitErr := group.Wait()

	for _, outcome := range outcomes {
		if outcome.Path == "" {
			continue
		}
		result.accumulate(outcome)
	}
	result.Stats.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	if waitErr != nil {
		return result, fmt.Errorf("run: %w", waitErr)
	}
	return result, nil
}
