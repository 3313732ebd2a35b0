package configloader

import (
	"fmt"

	"github.com/yaklabco/gotypfmt/pkg/config"
)

// legacyKeys maps the option names of older typstfmt releases to their
// current names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var legacyKeys = map[string]string{
	"indent_space": "indent_width",
	"line_wrap":    "wrap_text",
	"hard_tabs":    "use_tabs",

	"experimental_args_breaking_consecutive": "pack_consecutive_args",
}

// CanonicalKey returns the current name of an option. Unknown and current
// names are returned unchanged.
func CanonicalKey(key string) string {
	if canonical, ok := legacyKeys[key]; ok {
		return canonical
	}
	return key
}

// IsLegacyKey reports whether key is an accepted legacy option name.
func IsLegacyKey(key string) bool {
	_, ok := legacyKeys[key]
	return ok
}

// resolveLegacyKeys moves legacy fields of the layer onto their current
// names, unless the current name is also set. It clears the legacy fields and
// returns one deprecation warning per legacy key found.
func resolveLegacyKeys(layer *config.Layer, source string) []string {
	var warnings []string
	warn := func(key string) {
		warnings = append(warnings, fmt.Sprintf("%s: option %q is deprecated, use %q",
			describe(source), key, CanonicalKey(key)))
	}

	if layer.IndentSpace != nil {
		warn("indent_space")
		if layer.IndentWidth == nil {
			layer.IndentWidth = layer.IndentSpace
		}
		layer.IndentSpace = nil
	}
	if layer.LineWrap != nil {
		warn("line_wrap")
		if layer.WrapText == nil {
			layer.WrapText = layer.LineWrap
		}
		layer.LineWrap = nil
	}
	if layer.ExperimentalArgsBreakingConsecutive != nil {
		warn("experimental_args_breaking_consecutive")
		if layer.PackConsecutiveArgs == nil {
			layer.PackConsecutiveArgs = layer.ExperimentalArgsBreakingConsecutive
		}
		layer.ExperimentalArgsBreakingConsecutive = nil
	}
	if layer.HardTabs != nil {
		warn("hard_tabs")
		if layer.UseTabs == nil {
			layer.UseTabs = layer.HardTabs
		}
		layer.HardTabs = nil
	}
	return warnings
}
