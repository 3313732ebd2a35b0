// Package configloader resolves the effective gotypfmt configuration. It
// discovers configuration files, decodes each source into a layer, and
// applies the layers over the defaults in precedence order.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/config"
)

// configFilePermissions is the file mode for configuration files written by
// the CLI.
const configFilePermissions = 0o644

// ErrConfigExists is returned by WriteDefaultConfig when the target file
// exists and force is not set.
var ErrConfigExists = errors.New("configuration file already exists")

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// WorkingDir is the directory searched for a project config. Defaults to
	// the current working directory.
	WorkingDir string

	// ExplicitPath is a config file given with --config. It is applied
	// above the discovered files.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// CLILayer holds the options set by command-line flags. It has the
	// highest precedence.
	CLILayer *config.Layer

	// Mode and Output are command-line only. Empty values keep the defaults.
	Mode   config.Mode
	Output config.OutputFormat
}

// LoadResult contains the resolved configuration and how it was built.
type LoadResult struct {
	// Config is the final configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were applied, lowest precedence first.
	LoadedFrom []string

	// Warnings contains non-fatal findings such as unknown or legacy keys.
	Warnings []string
}

// Load resolves the configuration. Precedence, highest first:
//  1. CLI flags (opts.CLILayer)
//  2. Environment variables (GOTYPFMT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (typstfmt-config.toml and friends, searched upward)
//  5. User config ($XDG_CONFIG_HOME/gotypfmt/config.toml)
//  6. System config (/etc/gotypfmt/config.toml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	files := []struct {
		path   string
		skip   bool
		source string
	}{
		{paths.System, opts.IgnoreSystemConfig, "system"},
		{paths.User, opts.IgnoreUserConfig, "user"},
		{paths.Project, opts.IgnoreProjectConfig || opts.ExplicitPath != "", "project"},
		{opts.ExplicitPath, false, "explicit"},
	}
	for _, file := range files {
		if file.path == "" || file.skip {
			continue
		}
		layer, warnings, err := LoadLayerFile(file.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", file.source, err)
		}
		result.Warnings = append(result.Warnings, warnings...)
		applyLayer(cfg, layer, file.path, result)
		result.LoadedFrom = append(result.LoadedFrom, file.path)
	}

	if !opts.IgnoreEnv {
		lookup := opts.LookupEnv
		if lookup == nil {
			lookup = os.LookupEnv
		}
		layer, err := LoadEnvLayer(lookup)
		if err != nil {
			return nil, &ValidationError{FilePath: "environment", Message: err.Error()}
		}
		applyLayer(cfg, layer, "environment", result)
	}

	applyLayer(cfg, opts.CLILayer, "command line", result)
	if opts.Mode != "" {
		cfg.Mode = opts.Mode
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, validation.Err()
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// LoadLayerFile decodes one configuration file. The format follows the
// extension: .yml and .yaml are YAML, everything else is TOML. Unknown keys
// are returned as warnings.
func LoadLayerFile(path string) (*config.Layer, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	var (
		layer   *config.Layer
		unknown []string
	)
	if IsYAMLConfig(path) {
		layer, unknown, err = config.DecodeYAMLLayer(content)
	} else {
		layer, unknown, err = config.DecodeTOMLLayer(content)
	}
	if err != nil {
		return nil, nil, &ValidationError{FilePath: path, Message: err.Error()}
	}

	warnings := make([]string, 0, len(unknown))
	for _, key := range unknown {
		warnings = append(warnings, fmt.Sprintf("%s: unknown key %q is ignored", path, key))
	}
	return layer, warnings, nil
}

// WriteDefaultConfig writes the default configuration as a full TOML
// template to path. It refuses to overwrite an existing file unless force is
// set.
func WriteDefaultConfig(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: true, Format: config.TemplateTOML})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// describe renders a layer source for messages.
func describe(source string) string {
	if strings.ContainsRune(source, os.PathSeparator) || strings.Contains(source, ".") {
		return source
	}
	return "the " + source
}
