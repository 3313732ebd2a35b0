package configloader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/config"
)

// envVarPrefix is the prefix for all gotypfmt environment variables.
const envVarPrefix = "GOTYPFMT_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines an environment variable to layer field mapping.
type envMapping struct {
	field string
	typ   envFieldType
	doc   string
}

// envMappings maps environment variable names (without prefix) to layer fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"INDENT_WIDTH":          {field: "indent_width", typ: envTypeInt, doc: "Columns per indentation level"},
	"MAX_LINE_LENGTH":       {field: "max_line_length", typ: envTypeInt, doc: "Soft line length limit"},
	"WRAP_TEXT":             {field: "wrap_text", typ: envTypeBool, doc: "Reflow markup text: true or false"},
	"PACK_CONSECUTIVE_ARGS": {field: "pack_consecutive_args", typ: envTypeBool, doc: "Pack short arguments: true or false"},
	"USE_TABS":              {field: "use_tabs", typ: envTypeBool, doc: "Indent with tabs: true or false"},
	"JOBS":                  {field: "jobs", typ: envTypeInt, doc: "Number of parallel workers (0 = auto)"},
	"EXCLUDE":               {field: "files.exclude", typ: envTypeSlice, doc: "Comma-separated list of exclude globs"},
	"MARKDOWN":              {field: "files.markdown", typ: envTypeBool, doc: "Format typ blocks in Markdown: true or false"},
	"BACKUPS_ENABLED":       {field: "backups.enabled", typ: envTypeBool, doc: "Keep backups of rewritten files: true or false"},
	"BACKUPS_MODE":          {field: "backups.mode", typ: envTypeString, doc: "Backup mode: sidecar or none"},
}

// LoadEnvLayer builds a layer from GOTYPFMT_* environment variables. Unset
// and empty variables are skipped.
func LoadEnvLayer(lookup func(string) (string, bool)) (*config.Layer, error) {
	layer := &config.Layer{}

	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	for _, suffix := range suffixes {
		envVar := envVarPrefix + suffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(layer, envMappings[suffix], value, envVar); err != nil {
			return nil, err
		}
	}

	return layer, nil
}

// applyEnvValue applies a single environment variable value to the layer.
func applyEnvValue(layer *config.Layer, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(layer, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(layer, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(layer, mapping.field, i)
	case envTypeSlice:
		return setSliceField(layer, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func filesLayer(layer *config.Layer) *config.FilesLayer {
	if layer.Files == nil {
		layer.Files = &config.FilesLayer{}
	}
	return layer.Files
}

func backupsLayer(layer *config.Layer) *config.BackupsLayer {
	if layer.Backups == nil {
		layer.Backups = &config.BackupsLayer{}
	}
	return layer.Backups
}

// setStringField sets a string field on the layer by field path.
func setStringField(layer *config.Layer, field, value string) error {
	switch field {
	case "backups.mode":
		backupsLayer(layer).Mode = &value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the layer by field path.
func setBoolField(layer *config.Layer, field string, value bool) error {
	switch field {
	case "wrap_text":
		layer.WrapText = &value
	case "pack_consecutive_args":
		layer.PackConsecutiveArgs = &value
	case "use_tabs":
		layer.UseTabs = &value
	case "files.markdown":
		filesLayer(layer).Markdown = &value
	case "backups.enabled":
		backupsLayer(layer).Enabled = &value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the layer by field path.
func setIntField(layer *config.Layer, field string, value int) error {
	switch field {
	case "indent_width":
		layer.IndentWidth = &value
	case "max_line_length":
		layer.MaxLineLength = &value
	case "jobs":
		layer.Jobs = &value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the layer by field path.
func setSliceField(layer *config.Layer, field string, value []string) error {
	switch field {
	case "files.exclude":
		filesLayer(layer).Exclude = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.doc
	}
	return vars
}
