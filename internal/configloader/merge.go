package configloader

import "github.com/yaklabco/gotypfmt/pkg/config"

// applyLayer copies every field the layer sets onto cfg. The merge rules:
//   - Scalars: a non-nil pointer overwrites the current value
//   - Slices: a non-nil slice replaces the current value entirely
//   - Legacy keys are resolved first, so a current key in the same layer wins
//
// Warnings about legacy keys are appended to result.
func applyLayer(cfg *config.Config, layer *config.Layer, source string, result *LoadResult) {
	if cfg == nil || layer.IsEmpty() {
		return
	}

	result.Warnings = append(result.Warnings, resolveLegacyKeys(layer, source)...)

	setInt(&cfg.IndentWidth, layer.IndentWidth)
	setInt(&cfg.MaxLineLength, layer.MaxLineLength)
	setBool(&cfg.WrapText, layer.WrapText)
	setBool(&cfg.PackConsecutiveArgs, layer.PackConsecutiveArgs)
	setBool(&cfg.UseTabs, layer.UseTabs)
	setInt(&cfg.Jobs, layer.Jobs)

	if files := layer.Files; files != nil {
		if files.Extensions != nil {
			cfg.Files.Extensions = append([]string(nil), files.Extensions...)
		}
		if files.Exclude != nil {
			cfg.Files.Exclude = append([]string(nil), files.Exclude...)
		}
		setBool(&cfg.Files.Markdown, files.Markdown)
	}

	if backups := layer.Backups; backups != nil {
		setBool(&cfg.Backups.Enabled, backups.Enabled)
		if backups.Mode != nil {
			cfg.Backups.Mode = *backups.Mode
		}
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
