// Package pipeline runs one file through the formatting steps: read,
// format, diff, and, in write mode, the guarded write-back.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/diff"
	"github.com/yaklabco/gotypfmt/pkg/format"
	"github.com/yaklabco/gotypfmt/pkg/fsutil"
	"github.com/yaklabco/gotypfmt/pkg/mdembed"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrFormatFailure indicates the formatter rejected its own output.
	ErrFormatFailure = errors.New("format failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// Language selects how a file is formatted.
type Language int

const (
	// LanguageTypst formats the whole file as Typst.
	LanguageTypst Language = iota
	// LanguageMarkdown formats the typ/typst fenced blocks of a Markdown file.
	LanguageMarkdown
)

func (l Language) String() string {
	if l == LanguageMarkdown {
		return "markdown"
	}
	return "typst"
}

// Options controls the pipeline.
type Options struct {
	// Mode selects what happens to changed content.
	Mode config.Mode

	// Format holds the formatting options.
	Format config.FormatConfig

	// Backup configures backups made before a file is rewritten.
	Backup fsutil.BackupConfig
}

// OptionsFromConfig builds pipeline options from the resolved configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Options{
		Mode:   cfg.Mode,
		Format: cfg.FormatConfig,
		Backup: fsutil.BackupConfig{
			Enabled: cfg.Backups.Enabled,
			Mode:    fsutil.BackupMode(cfg.Backups.Mode),
		},
	}
}

// Result is the outcome of processing one file.
type Result struct {
	// Path is the processed file, or "-" for standard input.
	Path string

	// Language is how the file was formatted.
	Language Language

	// Original and Formatted hold the content before and after formatting.
	Original  string
	Formatted string

	// Changed is true when formatting altered the content.
	Changed bool

	// Diff is the unified diff of the change, computed in check and diff
	// modes. It is nil when nothing changed.
	Diff *diff.Diff

	// Blocks counts the Typst blocks of a Markdown file.
	Blocks int

	// Skipped is true when a changed file was not written.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupPath is the backup written before the file was replaced.
	BackupPath string

	// Written is true if the file was rewritten on disk.
	Written bool

	// Duration is the time spent on the file.
	Duration time.Duration
}

// Summary returns a short human-readable status.
func (r *Result) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupPath != "":
		return "formatted (backup created)"
	case r.Written:
		return "formatted"
	case r.Changed:
		return "needs formatting"
	default:
		return "ok"
	}
}

// ProcessFile runs the pipeline for a file on disk. In write mode a changed
// file is replaced atomically after checking it was not modified since it
// was read, and after the optional backup.
func ProcessFile(ctx context.Context, path string, lang Language, opts Options) (*Result, error) {
	start := time.Now()

	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := ProcessContent(ctx, path, string(content), lang, opts)
	if err != nil {
		return nil, err
	}
	defer func() { result.Duration = time.Since(start) }()

	if !result.Changed || opts.Mode != config.ModeWrite {
		return result, nil
	}

	modified, err := snap.Changed(ctx)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	result.BackupPath, err = fsutil.CreateBackup(ctx, snap, content, opts.Backup)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, path, []byte(result.Formatted), snap.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent formats in-memory content without file I/O. The diff is
// computed in check and diff modes.
func ProcessContent(ctx context.Context, path, content string, lang Language, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	start := time.Now()
	result := &Result{
		Path:     path,
		Language: lang,
		Original: content,
	}

	switch lang {
	case LanguageMarkdown:
		formatted, embedded, err := mdembed.Format(content, opts.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFormatFailure, path, err)
		}
		result.Formatted = formatted
		result.Blocks = embedded.Blocks
	default:
		formatted, err := format.FormatSource(content, opts.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFormatFailure, path, err)
		}
		result.Formatted = formatted
	}

	result.Changed = result.Formatted != content
	if result.Changed && (opts.Mode == config.ModeCheck || opts.Mode == config.ModeDiff) {
		d, err := diff.Compute(path, content, result.Formatted)
		if err != nil {
			return nil, err
		}
		result.Diff = d
	}

	result.Duration = time.Since(start)
	return result, nil
}

// categorizeError wraps an error with the matching pipeline error type.
func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsIOError reports whether err comes from reading or writing a file.
func IsIOError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrWriteFailure) ||
		errors.Is(err, fsutil.ErrIsDirectory)
}
