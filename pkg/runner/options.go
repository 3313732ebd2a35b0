// Package runner formats many files: it discovers them, runs the pipeline
// on each with bounded parallelism, and aggregates the outcomes.
package runner

import (
	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/pipeline"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified files or directories. Empty means the
	// working directory.
	Paths []string

	// WorkingDir resolves relative Paths and anchors exclude globs. Empty
	// means the process working directory.
	WorkingDir string

	// Extensions lists the extensions (with leading dot) formatted as
	// Typst during directory walks. Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs skip matching files and directories.
	ExcludeGlobs []string

	// Markdown also selects Markdown files, whose typ/typst fenced blocks
	// are formatted.
	Markdown bool

	// IncludeVendored disables the skipping of vendored directories such as
	// node_modules.
	IncludeVendored bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs bounds the number of files processed at once. 0 or negative
	// means runtime.GOMAXPROCS(0).
	Jobs int

	// Pipeline configures per-file processing.
	Pipeline pipeline.Options
}

// DefaultExtensions returns the default Typst file extensions.
func DefaultExtensions() []string {
	return []string{".typ"}
}

// OptionsFromConfig builds run options for paths from the resolved
// configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Options{
		Paths:        paths,
		Extensions:   cfg.Files.Extensions,
		ExcludeGlobs: cfg.Files.Exclude,
		Markdown:     cfg.Files.Markdown,
		Jobs:         cfg.Jobs,
		Pipeline:     pipeline.OptionsFromConfig(cfg),
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
