package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/gotypfmt/pkg/pipeline"
)

// markdownLanguage is the linguist name of Markdown.
const markdownLanguage = "Markdown"

// Target is a discovered file with the language it is formatted as.
type Target struct {
	Path     string
	Language pipeline.Language
}

// Discover finds the files selected by opts. It returns absolute paths,
// deduplicated and sorted.
//
// Directories are walked recursively, skipping hidden and vendored
// directories and anything matching an exclude glob. Inside directories a
// file is selected by extension, or as Markdown when opts.Markdown is set.
// Files named explicitly are selected whatever their extension, unless
// excluded.
func Discover(ctx context.Context, opts Options) ([]Target, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		opts:       opts,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		seen:       make(map[string]bool),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := d.walk(ctx, absPath); err != nil {
				return nil, err
			}
			continue
		}

		if d.excluded(absPath) {
			continue
		}
		d.add(absPath, classifyExplicit(absPath))
	}

	sort.Slice(d.targets, func(i, j int) bool {
		return d.targets[i].Path < d.targets[j].Path
	})
	return d.targets, nil
}

type discoverer struct {
	opts       Options
	workDir    string
	extensions []string
	seen       map[string]bool
	targets    []Target
}

func (d *discoverer) add(path string, lang pipeline.Language) {
	if d.seen[path] {
		return
	}
	d.seen[path] = true
	d.targets = append(d.targets, Target{Path: path, Language: lang})
}

func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (d *discoverer) excluded(path string) bool {
	return matchesAny(d.rel(path), d.opts.ExcludeGlobs)
}

// vendored reports whether dir is a vendored directory below root.
func vendored(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return enry.IsVendor(filepath.ToSlash(rel) + "/")
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		name := entry.Name()
		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || d.excluded(path) {
				return filepath.SkipDir
			}
			if !d.opts.IncludeVendored && vendored(root, path) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable symlink targets are skipped.
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				// Walk the target; WalkDir does not follow a symlinked root.
				return d.walk(ctx, target)
			}
		}

		if d.excluded(path) {
			return nil
		}
		if lang, ok := d.classify(path); ok {
			d.add(path, lang)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// classify selects a walked file by its configured extension, or as
// Markdown when Markdown formatting is enabled.
func (d *discoverer) classify(path string) (pipeline.Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range d.extensions {
		if strings.ToLower(e) == ext {
			return pipeline.LanguageTypst, true
		}
	}
	if d.opts.Markdown && isMarkdown(path) {
		return pipeline.LanguageMarkdown, true
	}
	return pipeline.LanguageTypst, false
}

// classifyExplicit picks the language of a file named on the command line.
func classifyExplicit(path string) pipeline.Language {
	if isMarkdown(path) {
		return pipeline.LanguageMarkdown
	}
	return pipeline.LanguageTypst
}

// isMarkdown reports whether Markdown is among the languages linguist
// associates with the extension. ".md" is ambiguous there, so the first
// candidate alone is not enough.
func isMarkdown(path string) bool {
	for _, lang := range enry.GetLanguagesByExtension(path, nil, nil) {
		if lang == markdownLanguage {
			return true
		}
	}
	return false
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}
