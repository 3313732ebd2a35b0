package config

import (
	"bytes"
	"fmt"
	"strings"
)

// TemplateFormat is the file format of a generated configuration template.
type TemplateFormat string

const (
	TemplateTOML TemplateFormat = "toml"
	TemplateYAML TemplateFormat = "yaml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every option with its default value. If false, options
	// are written commented out.
	Full bool

	// Format is the output format: "toml" or "yaml".
	Format TemplateFormat
}

type templateEntry struct {
	section string
	key     string
	doc     string
	toml    string
	yaml    string
}

//nolint:gochecknoglobals // Read-only template description.
var templateEntries = []templateEntry{
	{key: "indent_width", doc: "Columns per indentation level", toml: "2", yaml: "2"},
	{key: "max_line_length", doc: "Soft line length limit used for breaking and wrapping", toml: "80", yaml: "80"},
	{key: "wrap_text", doc: "Reflow markup text at max_line_length", toml: "true", yaml: "true"},
	{key: "pack_consecutive_args", doc: "Pack short arguments onto shared lines when a list breaks", toml: "false", yaml: "false"},
	{key: "use_tabs", doc: "Indent with tabs instead of spaces", toml: "false", yaml: "false"},
	{key: "jobs", doc: "Number of parallel workers (0 = auto)", toml: "0", yaml: "0"},
	{section: "files", key: "extensions", doc: "File extensions formatted as Typst", toml: `[".typ"]`, yaml: `[".typ"]`},
	{section: "files", key: "exclude", doc: "Glob patterns to skip", toml: `["vendor/**"]`, yaml: `["vendor/**"]`},
	{section: "files", key: "markdown", doc: "Also format typ/typst fenced blocks in Markdown files", toml: "false", yaml: "false"},
	{section: "backups", key: "enabled", doc: "Keep a backup next to every rewritten file", toml: "false", yaml: "false"},
	{section: "backups", key: "mode", doc: "Backup placement", toml: `"sidecar"`, yaml: "sidecar"},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case TemplateTOML, "":
		return generateTOMLTemplate(opts), nil
	case TemplateYAML:
		return generateYAMLTemplate(opts), nil
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}
}

func generateTOMLTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")

	prefix := commentPrefix(opts.Full)
	section := ""
	for _, e := range templateEntries {
		if e.section != section {
			section = e.section
			fmt.Fprintf(&buf, "\n%s[%s]\n", prefix, section)
		}
		fmt.Fprintf(&buf, "\n# %s\n%s%s = %s\n", e.doc, prefix, e.key, e.toml)
	}

	return buf.Bytes()
}

func generateYAMLTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")

	prefix := commentPrefix(opts.Full)
	indent := strings.Repeat(" ", YAMLIndent())
	section := ""
	for _, e := range templateEntries {
		lead := ""
		if e.section != "" {
			lead = indent
		}
		if e.section != section {
			section = e.section
			fmt.Fprintf(&buf, "\n%s%s:\n", prefix, section)
		}
		fmt.Fprintf(&buf, "\n%s# %s\n%s%s%s: %s\n", lead, e.doc, prefix, lead, e.key, e.yaml)
	}

	return buf.Bytes()
}

func commentPrefix(full bool) string {
	if full {
		return ""
	}
	return "# "
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gotypfmt configuration
# See: https://github.com/yaklabco/gotypfmt`
}
