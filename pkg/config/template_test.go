package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypfmt/pkg/config"
)

func TestGenerateTemplateFull(t *testing.T) {
	t.Parallel()

	defaults := config.NewConfig()

	t.Run("toml", func(t *testing.T) {
		t.Parallel()
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true, Format: config.TemplateTOML})
		require.NoError(t, err)

		cfg, err := config.FromTOML(data)
		require.NoError(t, err)
		assert.Equal(t, defaults.FormatConfig, cfg.FormatConfig)
		assert.Equal(t, []string{"vendor/**"}, cfg.Files.Exclude)
		assert.Equal(t, defaults.Backups, cfg.Backups)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true, Format: config.TemplateYAML})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, defaults.FormatConfig, cfg.FormatConfig)
		assert.Equal(t, []string{".typ"}, cfg.Files.Extensions)
		assert.Equal(t, defaults.Backups, cfg.Backups)
	})
}

func TestGenerateTemplateMinimalIsAllComments(t *testing.T) {
	t.Parallel()

	data, err := config.GenerateTemplate(config.TemplateOptions{})
	require.NoError(t, err)

	layer, unknown, err := config.DecodeTOMLLayer(data)
	require.NoError(t, err)
	assert.True(t, layer.IsEmpty())
	assert.Empty(t, unknown)
	assert.Contains(t, string(data), "# indent_width = 2")
}

func TestGenerateTemplateUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "ini"})
	assert.Error(t, err)
}
