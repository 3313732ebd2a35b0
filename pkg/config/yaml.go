package config

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
// It produces human-readable output with appropriate formatting.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a complete configuration from YAML bytes. Keys absent from
// the document keep their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// DecodeYAMLLayer parses a configuration layer from YAML bytes. It also
// returns the dotted keys the layer does not recognize.
func DecodeYAMLLayer(data []byte) (*Layer, []string, error) {
	layer := &Layer{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, nil, fmt.Errorf("parse yaml: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse yaml: %w", err)
	}

	return layer, unknownKeys(raw, ""), nil
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownSections = map[string]map[string]bool{
	"": {
		"indent_width": true, "max_line_length": true, "wrap_text": true,
		"pack_consecutive_args": true, "use_tabs": true, "jobs": true,
		"files": true, "backups": true,
		"indent_space": true, "line_wrap": true,
		"experimental_args_breaking_consecutive": true, "hard_tabs": true,
	},
	"files":   {"extensions": true, "exclude": true, "markdown": true},
	"backups": {"enabled": true, "mode": true},
}

func unknownKeys(raw map[string]any, section string) []string {
	known := knownSections[section]

	var unknown []string
	for key, value := range raw {
		path := key
		if section != "" {
			path = section + "." + key
		}
		if !known[key] {
			unknown = append(unknown, path)
			continue
		}
		if sub, ok := value.(map[string]any); ok && section == "" {
			unknown = append(unknown, unknownKeys(sub, key)...)
		}
	}

	sort.Strings(unknown)
	return unknown
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
