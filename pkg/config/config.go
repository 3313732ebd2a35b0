// Package config defines core configuration types for gotypfmt.
// These types are pure data structures; discovery and layering live in
// internal/configloader.
package config

// Default values for the formatting options.
const (
	DefaultIndentWidth   = 2
	DefaultMaxLineLength = 80
)

// DefaultFileName is the project configuration file written by
// `gotypfmt --make-default-config`.
const DefaultFileName = "typstfmt-config.toml"

// FormatConfig holds the options that shape the formatted output. A value is
// immutable for the duration of one formatting call.
type FormatConfig struct {
	// IndentWidth is the number of columns per indentation level.
	IndentWidth int `toml:"indent_width" yaml:"indent_width"`

	// MaxLineLength is the soft line-length limit used by the break and wrap
	// decisions. It must be greater than 1.
	MaxLineLength int `toml:"max_line_length" yaml:"max_line_length"`

	// WrapText enables reflowing of markup text at MaxLineLength.
	WrapText bool `toml:"wrap_text" yaml:"wrap_text"`

	// PackConsecutiveArgs packs short consecutive arguments onto shared
	// lines when an argument list breaks.
	PackConsecutiveArgs bool `toml:"pack_consecutive_args" yaml:"pack_consecutive_args"`

	// UseTabs indents with one tab per level instead of IndentWidth spaces.
	UseTabs bool `toml:"use_tabs" yaml:"use_tabs"`
}

// DefaultFormatConfig returns the default formatting options.
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{
		IndentWidth:   DefaultIndentWidth,
		MaxLineLength: DefaultMaxLineLength,
		WrapText:      true,
	}
}

// FilesConfig selects which files the runner formats.
type FilesConfig struct {
	// Extensions lists the file extensions formatted as Typst, with the dot.
	Extensions []string `toml:"extensions" yaml:"extensions"`

	// Exclude contains glob patterns for files and directories to skip.
	Exclude []string `toml:"exclude" yaml:"exclude"`

	// Markdown also formats typ/typst fenced code blocks inside .md files.
	Markdown bool `toml:"markdown" yaml:"markdown"`
}

// BackupsConfig controls backup behavior when files are rewritten.
type BackupsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Mode    string `toml:"mode" yaml:"mode"` // "sidecar"
}

// OutputFormat specifies the report format.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// IsValid reports whether f is a known report format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// Mode selects what happens to formatted content.
type Mode string

const (
	// ModeWrite rewrites changed files in place.
	ModeWrite Mode = "write"
	// ModeCheck only reports files that would change.
	ModeCheck Mode = "check"
	// ModeDiff reports a unified diff of pending changes.
	ModeDiff Mode = "diff"
	// ModeStdout prints formatted content instead of writing it.
	ModeStdout Mode = "stdout"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeWrite, ModeCheck, ModeDiff, ModeStdout:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for gotypfmt. The formatting
// options sit at the top level of a configuration file.
type Config struct {
	FormatConfig `yaml:",inline"`

	// Jobs is the number of parallel workers; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs" yaml:"jobs"`

	// Files selects the formatted files.
	Files FilesConfig `toml:"files" yaml:"files"`

	// Backups configures backup behavior when files are rewritten.
	Backups BackupsConfig `toml:"backups" yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Mode selects write, check, diff or stdout behavior.
	Mode Mode `toml:"-" yaml:"-"`

	// Output specifies the report format.
	Output OutputFormat `toml:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		FormatConfig: DefaultFormatConfig(),
		Jobs:         0,
		Files: FilesConfig{
			Extensions: []string{".typ"},
		},
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
		Mode:   ModeWrite,
		Output: FormatText,
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	if c.Files.Extensions != nil {
		clone.Files.Extensions = append([]string(nil), c.Files.Extensions...)
	}
	if c.Files.Exclude != nil {
		clone.Files.Exclude = append([]string(nil), c.Files.Exclude...)
	}
	return &clone
}
