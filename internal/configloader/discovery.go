package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds the configuration files found for one working directory.
// A field is empty when no file exists at that level.
type ConfigPaths struct {
	// System is the machine-wide file, such as /etc/gotypfmt/config.toml.
	System string

	// User is the per-user file under $XDG_CONFIG_HOME/gotypfmt.
	User string

	// Project is the nearest project file at or above the working
	// directory, such as typstfmt-config.toml.
	Project string

	// Root is the directory that bounded the project search: a checkout
	// root or a Typst package root. It is empty when the search ran up to
	// the home directory or the filesystem root.
	Root string

	// Explicit is the file given with --config.
	Explicit string
}

// projectConfigFiles are the project file names, most preferred first. The
// typstfmt name comes first so existing projects keep working unchanged.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{
	"typstfmt-config.toml",
	"gotypfmt.toml",
	".gotypfmt.toml",
	".gotypfmt.yml",
	".gotypfmt.yaml",
}

// configDirFiles are looked up in the user and system config directories.
//
//nolint:gochecknoglobals // Read-only lookup table.
var configDirFiles = []string{"config.toml", "config.yaml", "config.yml"}

// rootMarker is an entry whose presence makes a directory a project root.
type rootMarker struct {
	name string
	dir  bool
}

// projectRootMarkers end the upward search. typst.toml is the manifest of a
// Typst package, so a package nested in a larger checkout keeps its own
// settings.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectRootMarkers = []rootMarker{
	{name: ".git", dir: true},
	{name: ".hg", dir: true},
	{name: ".svn", dir: true},
	{name: "typst.toml"},
}

// DiscoverPaths finds the configuration files that apply to workDir:
//   - the system file in /etc/gotypfmt (%ProgramData%\gotypfmt on Windows)
//   - the user file in $XDG_CONFIG_HOME/gotypfmt
//   - the project file, searched upward from workDir
//
// Missing files are not errors.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  findSystemConfig(),
		User:    findUserConfig(),
		Project: project.Path,
		Root:    project.Root,
	}, nil
}

func findSystemConfig() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return findConfigInDir(filepath.Join(programData, "gotypfmt"))
	}
	return findConfigInDir("/etc/gotypfmt")
}

func findUserConfig() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return findConfigInDir(dir)
}

// UserConfigDir returns the gotypfmt directory under $XDG_CONFIG_HOME, or
// under ~/.config when the variable is unset. It returns "" when neither can
// be determined.
func UserConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "gotypfmt")
}

func findConfigInDir(dir string) string {
	return firstFile(dir, configDirFiles)
}

// ProjectSearch is the outcome of an upward project config search.
type ProjectSearch struct {
	// Path is the config file found, or "".
	Path string
	// Root is the project root that stopped the search, or "".
	Root string
}

// FindProjectConfig walks from startDir toward the filesystem root and
// returns the first project config file. A directory is checked for config
// files before its root markers, so a file next to typst.toml or .git is
// still found. The walk also ends at the home directory.
func FindProjectConfig(ctx context.Context, startDir string) (ProjectSearch, error) {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return ProjectSearch{}, fmt.Errorf("get working directory: %w", err)
		}
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ProjectSearch{}, fmt.Errorf("resolve absolute path: %w", err)
	}

	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return ProjectSearch{}, fmt.Errorf("context cancelled: %w", err)
		}

		path := firstFile(dir, projectConfigFiles)
		root := isProjectRoot(dir)
		switch {
		case path != "" && root:
			return ProjectSearch{Path: path, Root: dir}, nil
		case path != "":
			return ProjectSearch{Path: path}, nil
		case root:
			return ProjectSearch{Root: dir}, nil
		case home != "" && dir == home:
			return ProjectSearch{}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ProjectSearch{}, nil
		}
		dir = parent
	}
}

func isProjectRoot(dir string) bool {
	for _, marker := range projectRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker.name))
		if err == nil && info.IsDir() == marker.dir {
			return true
		}
	}
	return false
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsYAMLConfig reports whether path names a YAML config file. Everything
// else is read as TOML.
func IsYAMLConfig(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
