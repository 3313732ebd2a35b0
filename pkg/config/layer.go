package config

// Layer is one source of configuration: a file, the environment, or the
// command line. Nil fields are unset and leave lower layers untouched.
type Layer struct {
	IndentWidth         *int  `toml:"indent_width" yaml:"indent_width"`
	MaxLineLength       *int  `toml:"max_line_length" yaml:"max_line_length"`
	WrapText            *bool `toml:"wrap_text" yaml:"wrap_text"`
	PackConsecutiveArgs *bool `toml:"pack_consecutive_args" yaml:"pack_consecutive_args"`
	UseTabs             *bool `toml:"use_tabs" yaml:"use_tabs"`
	Jobs                *int  `toml:"jobs" yaml:"jobs"`

	Files   *FilesLayer   `toml:"files" yaml:"files"`
	Backups *BackupsLayer `toml:"backups" yaml:"backups"`

	// Legacy typstfmt keys, accepted and mapped onto their current names.
	IndentSpace                         *int  `toml:"indent_space" yaml:"indent_space"`
	LineWrap                            *bool `toml:"line_wrap" yaml:"line_wrap"`
	ExperimentalArgsBreakingConsecutive *bool `toml:"experimental_args_breaking_consecutive" yaml:"experimental_args_breaking_consecutive"`
	HardTabs                            *bool `toml:"hard_tabs" yaml:"hard_tabs"`
}

// FilesLayer is the optional form of FilesConfig.
type FilesLayer struct {
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Exclude    []string `toml:"exclude" yaml:"exclude"`
	Markdown   *bool    `toml:"markdown" yaml:"markdown"`
}

// BackupsLayer is the optional form of BackupsConfig.
type BackupsLayer struct {
	Enabled *bool   `toml:"enabled" yaml:"enabled"`
	Mode    *string `toml:"mode" yaml:"mode"`
}

// IsEmpty reports whether the layer sets nothing.
func (l *Layer) IsEmpty() bool {
	if l == nil {
		return true
	}
	return l.IndentWidth == nil && l.MaxLineLength == nil && l.WrapText == nil &&
		l.PackConsecutiveArgs == nil && l.UseTabs == nil && l.Jobs == nil &&
		l.Files == nil && l.Backups == nil &&
		l.IndentSpace == nil && l.LineWrap == nil &&
		l.ExperimentalArgsBreakingConsecutive == nil && l.HardTabs == nil
}

// Ptr returns a pointer to v. It is a helper for building layers.
func Ptr[T any](v T) *T {
	return &v
}
