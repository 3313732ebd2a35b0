package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/gotypfmt/pkg/config"
)

// projectDir returns a temp directory marked as a VCS root so the upward
// search stops inside it.
func projectDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("create .git: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if result.Config.FormatConfig != config.DefaultFormatConfig() {
		t.Errorf("expected default format config, got %+v", result.Config.FormatConfig)
	}
	if result.Config.Mode != config.ModeWrite {
		t.Errorf("expected mode %q, got %q", config.ModeWrite, result.Config.Mode)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, "typstfmt-config.toml"), `
indent_width = 4
max_line_length = 100
wrap_text = false

[files]
exclude = ["build/*"]
`)

	sub := filepath.Join(dir, "chapters")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolated(sub))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.IndentWidth != 4 || cfg.MaxLineLength != 100 || cfg.WrapText {
		t.Errorf("project config not applied: %+v", cfg.FormatConfig)
	}
	if len(cfg.Files.Exclude) != 1 || cfg.Files.Exclude[0] != "build/*" {
		t.Errorf("expected exclude [build/*], got %v", cfg.Files.Exclude)
	}
	if len(cfg.Files.Extensions) != 1 || cfg.Files.Extensions[0] != ".typ" {
		t.Errorf("extensions should keep the default, got %v", cfg.Files.Extensions)
	}
	if result.Paths.Project != filepath.Join(dir, "typstfmt-config.toml") {
		t.Errorf("unexpected project path %q", result.Paths.Project)
	}
	if result.Paths.Root != dir {
		t.Errorf("unexpected project root %q", result.Paths.Root)
	}
}

func TestFindProjectConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    func(t *testing.T, dir string) string
		wantPath string
		wantRoot string
	}{
		{
			name: "config above the working directory",
			setup: func(t *testing.T, dir string) string {
				writeFile(t, filepath.Join(dir, "gotypfmt.toml"), "")
				return mkdirAll(t, filepath.Join(dir, "a", "b"))
			},
			wantPath: "gotypfmt.toml",
			wantRoot: ".",
		},
		{
			name: "typst package root stops the search",
			setup: func(t *testing.T, dir string) string {
				writeFile(t, filepath.Join(dir, "typstfmt-config.toml"), "")
				pkg := mkdirAll(t, filepath.Join(dir, "packages", "mine"))
				writeFile(t, filepath.Join(pkg, "typst.toml"), "[package]\nname = \"mine\"\n")
				return mkdirAll(t, filepath.Join(pkg, "src"))
			},
			wantRoot: filepath.Join("packages", "mine"),
		},
		{
			name: "config next to the package manifest",
			setup: func(t *testing.T, dir string) string {
				pkg := mkdirAll(t, filepath.Join(dir, "pkg"))
				writeFile(t, filepath.Join(pkg, "typst.toml"), "")
				writeFile(t, filepath.Join(pkg, ".gotypfmt.yml"), "")
				return pkg
			},
			wantPath: filepath.Join("pkg", ".gotypfmt.yml"),
			wantRoot: "pkg",
		},
		{
			name: "preferred name wins",
			setup: func(t *testing.T, dir string) string {
				writeFile(t, filepath.Join(dir, ".gotypfmt.toml"), "")
				writeFile(t, filepath.Join(dir, "typstfmt-config.toml"), "")
				return dir
			},
			wantPath: "typstfmt-config.toml",
			wantRoot: ".",
		},
		{
			name: "directory named like a config is skipped",
			setup: func(t *testing.T, dir string) string {
				mkdirAll(t, filepath.Join(dir, "gotypfmt.toml"))
				return dir
			},
			wantRoot: ".",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			start := tt.setup(t, dir)

			got, err := FindProjectConfig(context.Background(), start)
			if err != nil {
				t.Fatalf("FindProjectConfig() error = %v", err)
			}

			wantPath := ""
			if tt.wantPath != "" {
				wantPath = filepath.Join(dir, tt.wantPath)
			}
			if got.Path != wantPath {
				t.Errorf("Path = %q, want %q", got.Path, wantPath)
			}
			if want := filepath.Join(dir, tt.wantRoot); got.Root != want {
				t.Errorf("Root = %q, want %q", got.Root, want)
			}
		})
	}
}

func TestIsYAMLConfig(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]bool{
		".gotypfmt.yml":        true,
		"config.yaml":          true,
		"typstfmt-config.toml": false,
		"gotypfmt":             false,
	} {
		if got := IsYAMLConfig(path); got != want {
			t.Errorf("IsYAMLConfig(%q) = %v, want %v", path, got, want)
		}
	}
}

func mkdirAll(t *testing.T, dir string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}

func TestLoad_YAMLProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gotypfmt.yml"), "use_tabs: true\nfiles:\n  markdown: true\n")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !result.Config.UseTabs {
		t.Error("expected use_tabs from YAML config")
	}
	if !result.Config.Files.Markdown {
		t.Error("expected files.markdown from YAML config")
	}
}

func TestLoad_ExplicitConfigReplacesProject(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, "typstfmt-config.toml"), "indent_width = 4\nuse_tabs = true\n")
	explicit := filepath.Join(dir, "custom.toml")
	writeFile(t, explicit, "max_line_length = 60\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.MaxLineLength != 60 {
		t.Errorf("expected max_line_length 60, got %d", cfg.MaxLineLength)
	}
	if cfg.IndentWidth != config.DefaultIndentWidth || cfg.UseTabs {
		t.Errorf("project config should be skipped with an explicit config, got %+v", cfg.FormatConfig)
	}
	if len(result.LoadedFrom) != 1 || result.LoadedFrom[0] != explicit {
		t.Errorf("expected only the explicit file, got %v", result.LoadedFrom)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, "typstfmt-config.toml"), "indent_width = 4\nmax_line_length = 100\njobs = 2\n")

	env := map[string]string{
		"GOTYPFMT_MAX_LINE_LENGTH": "90",
		"GOTYPFMT_JOBS":            "3",
	}

	opts := isolated(dir)
	opts.IgnoreEnv = false
	opts.LookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	opts.CLILayer = &config.Layer{Jobs: config.Ptr(8)}
	opts.Mode = config.ModeCheck

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.IndentWidth != 4 {
		t.Errorf("indent_width: expected project value 4, got %d", cfg.IndentWidth)
	}
	if cfg.MaxLineLength != 90 {
		t.Errorf("max_line_length: expected env value 90, got %d", cfg.MaxLineLength)
	}
	if cfg.Jobs != 8 {
		t.Errorf("jobs: expected CLI value 8, got %d", cfg.Jobs)
	}
	if cfg.Mode != config.ModeCheck {
		t.Errorf("mode: expected %q, got %q", config.ModeCheck, cfg.Mode)
	}
}

func TestLoad_LegacyKeys(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, "typstfmt-config.toml"), `
indent_space = 3
line_wrap = false
experimental_args_breaking_consecutive = true
`)

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.IndentWidth != 3 || cfg.WrapText || !cfg.PackConsecutiveArgs {
		t.Errorf("legacy keys not mapped: %+v", cfg.FormatConfig)
	}
	if len(result.Warnings) != 3 {
		t.Fatalf("expected 3 deprecation warnings, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], `"indent_space" is deprecated`) {
		t.Errorf("unexpected warning %q", result.Warnings[0])
	}
}

func TestLoad_CurrentKeyWinsOverLegacy(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, "typstfmt-config.toml"), "indent_space = 3\nindent_width = 5\n")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.IndentWidth != 5 {
		t.Errorf("expected indent_width 5, got %d", result.Config.IndentWidth)
	}
}

func TestLoad_UnknownKeyWarns(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, "typstfmt-config.toml"), "tab_spaces = 4\n")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], `unknown key "tab_spaces"`) {
		t.Errorf("expected an unknown key warning, got %v", result.Warnings)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "syntax error", content: "indent_width = \n", want: "parse toml"},
		{name: "wrong type", content: "indent_width = \"wide\"\n", want: "parse toml"},
		{name: "line length", content: "max_line_length = 1\n", want: "max_line_length must be greater than 1"},
		{name: "indent", content: "indent_width = 0\n", want: "indent_width must be at least 1"},
		{name: "glob", content: "[files]\nexclude = [\"[\"]\n", want: "invalid glob pattern"},
		{name: "extension", content: "[files]\nextensions = [\"typ\"]\n", want: "must start with a dot"},
		{name: "backup mode", content: "[backups]\nmode = \"cloud\"\n", want: "invalid backup mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			writeFile(t, filepath.Join(dir, "typstfmt-config.toml"), tt.content)

			_, err := Load(context.Background(), isolated(dir))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Parallel()

	opts := isolated(projectDir(t))
	opts.IgnoreEnv = false
	opts.LookupEnv = func(key string) (string, bool) {
		if key == "GOTYPFMT_USE_TABS" {
			return "sometimes", true
		}
		return "", false
	}

	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "GOTYPFMT_USE_TABS") {
		t.Errorf("expected an error naming GOTYPFMT_USE_TABS, got %v", err)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoadEnvLayer(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"GOTYPFMT_EXCLUDE":      " a/*, ,b.typ ",
		"GOTYPFMT_BACKUPS_MODE": "none",
		"GOTYPFMT_WRAP_TEXT":    "0",
		"GOTYPFMT_USE_TABS":     "",
	}
	layer, err := LoadEnvLayer(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if err != nil {
		t.Fatalf("LoadEnvLayer() error = %v", err)
	}

	if layer.Files == nil || strings.Join(layer.Files.Exclude, "|") != "a/*|b.typ" {
		t.Errorf("unexpected exclude layer %+v", layer.Files)
	}
	if layer.Backups == nil || *layer.Backups.Mode != "none" {
		t.Errorf("unexpected backups layer %+v", layer.Backups)
	}
	if layer.WrapText == nil || *layer.WrapText {
		t.Error("expected wrap_text false")
	}
	if layer.UseTabs != nil {
		t.Error("empty variables must be skipped")
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	if len(vars) != len(envMappings) {
		t.Errorf("expected %d variables, got %d", len(envMappings), len(vars))
	}
	if _, ok := vars["GOTYPFMT_MAX_LINE_LENGTH"]; !ok {
		t.Error("GOTYPFMT_MAX_LINE_LENGTH missing")
	}
	if got := GetEnvVarName("files.exclude"); got != "GOTYPFMT_EXCLUDE" {
		t.Errorf("GetEnvVarName() = %q", got)
	}
}

func TestCanonicalKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"indent_space": "indent_width",
		"hard_tabs":    "use_tabs",
		"wrap_text":    "wrap_text",
	}
	for in, want := range tests {
		if got := CanonicalKey(in); got != want {
			t.Errorf("CanonicalKey(%q) = %q, want %q", in, got, want)
		}
	}
	if !IsLegacyKey("line_wrap") || IsLegacyKey("use_tabs") {
		t.Error("IsLegacyKey misclassifies keys")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	if err := WriteDefaultConfig(path, false); err != nil {
		t.Fatalf("WriteDefaultConfig() error = %v", err)
	}

	layer, warnings, err := LoadLayerFile(path)
	if err != nil {
		t.Fatalf("LoadLayerFile() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("template has unknown keys: %v", warnings)
	}
	if layer.MaxLineLength == nil || *layer.MaxLineLength != config.DefaultMaxLineLength {
		t.Errorf("template max_line_length = %v", layer.MaxLineLength)
	}

	if err := WriteDefaultConfig(path, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("expected ErrConfigExists when the file exists, got %v", err)
	}
	if err := WriteDefaultConfig(path, true); err != nil {
		t.Errorf("forced overwrite failed: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Output = "sarif"
	cfg.Mode = "fix"
	cfg.Jobs = -1

	result := Validate(cfg)
	if result.Valid() {
		t.Fatal("expected validation errors")
	}
	if len(result.Errors) != 3 {
		t.Errorf("expected 3 errors, got %v", result.AllMessages())
	}

	result = ValidateWithFile(cfg, "cfg.toml")
	if !strings.HasPrefix(result.Errors[0].Error(), "cfg.toml: ") {
		t.Errorf("file path missing: %q", result.Errors[0].Error())
	}

	cfg = config.NewConfig()
	cfg.IndentWidth = 80
	result = Validate(cfg)
	if !result.Valid() || !result.HasWarnings() {
		t.Errorf("expected a warning only, got %v", result.AllMessages())
	}
}
