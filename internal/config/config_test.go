package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsParse(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.UI.Theme.Default)
	assert.Contains(t, cfg.Themes, "dark")
	assert.Contains(t, cfg.Themes, "light")
	assert.Equal(t, "short", cfg.UI.Grid.RowHeight)
	assert.Equal(t, 4, cfg.Overscan())
	assert.Equal(t, 250, cfg.SearchDebounce())
	assert.Equal(t, 100, cfg.SearchResultLimit())
	assert.Equal(t, 80, cfg.ValuePreviewLimit())
	assert.True(t, cfg.ConfirmRowDelete())
	assert.True(t, cfg.StickyHeader())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	defaults, _ := Defaults()
	assert.Equal(t, defaults.UI, cfg.UI)
}

func TestLoadMergesUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ui:
  theme:
    default: light
  grid:
    row_height: medium
    overscan: 10
    sticky_header: false
  behavior:
    search_debounce_ms: 0
    value_preview_limit: 0
    confirm_row_delete: false
themes:
  custom:
    header_fg: "15"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme.Default)
	assert.Equal(t, "medium", cfg.UI.Grid.RowHeight)
	assert.Equal(t, 10, cfg.Overscan())
	// Explicit zero survives the merge (pointer field).
	assert.Equal(t, 0, cfg.SearchDebounce())
	assert.Equal(t, 0, cfg.ValuePreviewLimit())
	assert.False(t, cfg.ConfirmRowDelete())
	assert.False(t, cfg.StickyHeader())
	// Built-in themes remain alongside user additions.
	assert.Contains(t, cfg.Themes, "dark")
	assert.Contains(t, cfg.Themes, "custom")

	// The shared defaults must not absorb user themes.
	defaults, _ := Defaults()
	assert.NotContains(t, defaults.Themes, "custom")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestThemeFallback(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, cfg.Themes["dark"], cfg.Theme(""))
	assert.Equal(t, cfg.Themes["light"], cfg.Theme("light"))
	assert.Equal(t, cfg.Themes["dark"], cfg.Theme("missing"))
}
