// Package config loads the application configuration: an embedded
// default YAML merged with an optional user config file. The embedded
// file is the single source of truth for defaults and built-in themes.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// AppConfig holds non-UI application settings.
type AppConfig struct {
	LogLevel int8 `yaml:"log_level"`
}

// ThemeConfig is one named color scheme. Values are lipgloss color
// strings (ANSI-256 codes or hex).
type ThemeConfig struct {
	HeaderFg      string `yaml:"header_fg"`
	HeaderBg      string `yaml:"header_bg"`
	CursorFg      string `yaml:"cursor_fg"`
	CursorBg      string `yaml:"cursor_bg"`
	SelectionBg   string `yaml:"selection_bg"`
	RowSelectedBg string `yaml:"row_selected_bg"`
	PinnedBg      string `yaml:"pinned_bg"`
	MatchFg       string `yaml:"match_fg"`
	MatchBg       string `yaml:"match_bg"`
	MutedFg       string `yaml:"muted_fg"`
	BorderFg      string `yaml:"border_fg"`
	ToastInfoFg   string `yaml:"toast_info_fg"`
	ToastErrorFg  string `yaml:"toast_error_fg"`
	LinkFg        string `yaml:"link_fg"`
}

// GridConfig controls grid defaults the user can still change at runtime.
type GridConfig struct {
	RowHeight    string `yaml:"row_height"`
	Overscan     *int   `yaml:"overscan"`
	StickyHeader *bool  `yaml:"sticky_header"`
}

// BehaviorConfig tunes interaction timings and limits.
type BehaviorConfig struct {
	SearchDebounceMs  *int  `yaml:"search_debounce_ms"`
	SearchResultLimit *int  `yaml:"search_result_limit"`
	ValuePreviewLimit *int  `yaml:"value_preview_limit"`
	ConfirmRowDelete  *bool `yaml:"confirm_row_delete"`
}

// DisplayConfig controls rendering details.
type DisplayConfig struct {
	NoColor           *bool  `yaml:"no_color"`
	TruncateIndicator string `yaml:"truncate_indicator"`
}

// UIConfig groups the ui: section.
type UIConfig struct {
	Theme struct {
		Default string `yaml:"default"`
	} `yaml:"theme"`
	Grid     GridConfig     `yaml:"grid"`
	Behavior BehaviorConfig `yaml:"behavior"`
	Display  DisplayConfig  `yaml:"display"`
}

// Config is the merged application configuration.
type Config struct {
	App    AppConfig              `yaml:"app"`
	UI     UIConfig               `yaml:"ui"`
	Themes map[string]ThemeConfig `yaml:"themes"`
}

var (
	defaultsOnce sync.Once
	defaults     Config
	defaultsErr  error
)

// Defaults returns the parsed embedded default configuration.
func Defaults() (Config, error) {
	defaultsOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			defaultsErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &defaults); err != nil {
			defaultsErr = fmt.Errorf("decode embedded default config: %w", err)
			return
		}
		if defaults.UI.Theme.Default == "" || len(defaults.Themes) == 0 {
			defaultsErr = fmt.Errorf("embedded default config is missing theme defaults")
		}
	})
	return defaults, defaultsErr
}

// Load returns the defaults merged with the user config at path. An
// empty path returns the defaults unchanged; a missing or malformed
// user file is an error rather than a silent fallback.
func Load(path string) (Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var user Config
	if err := yaml.Unmarshal(data, &user); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return merge(cfg, user), nil
}

// merge layers the user config over the defaults field by field.
// Pointer fields distinguish "absent" from zero values.
func merge(base, user Config) Config {
	if user.App.LogLevel != 0 {
		base.App.LogLevel = user.App.LogLevel
	}
	if user.UI.Theme.Default != "" {
		base.UI.Theme.Default = user.UI.Theme.Default
	}
	if user.UI.Grid.RowHeight != "" {
		base.UI.Grid.RowHeight = user.UI.Grid.RowHeight
	}
	if user.UI.Grid.Overscan != nil {
		base.UI.Grid.Overscan = user.UI.Grid.Overscan
	}
	if user.UI.Grid.StickyHeader != nil {
		base.UI.Grid.StickyHeader = user.UI.Grid.StickyHeader
	}
	if user.UI.Behavior.SearchDebounceMs != nil {
		base.UI.Behavior.SearchDebounceMs = user.UI.Behavior.SearchDebounceMs
	}
	if user.UI.Behavior.SearchResultLimit != nil {
		base.UI.Behavior.SearchResultLimit = user.UI.Behavior.SearchResultLimit
	}
	if user.UI.Behavior.ValuePreviewLimit != nil {
		base.UI.Behavior.ValuePreviewLimit = user.UI.Behavior.ValuePreviewLimit
	}
	if user.UI.Behavior.ConfirmRowDelete != nil {
		base.UI.Behavior.ConfirmRowDelete = user.UI.Behavior.ConfirmRowDelete
	}
	if user.UI.Display.NoColor != nil {
		base.UI.Display.NoColor = user.UI.Display.NoColor
	}
	if user.UI.Display.TruncateIndicator != "" {
		base.UI.Display.TruncateIndicator = user.UI.Display.TruncateIndicator
	}
	if len(user.Themes) > 0 {
		// Copy-on-write: the base map is shared with the defaults.
		themes := make(map[string]ThemeConfig, len(base.Themes)+len(user.Themes))
		for name, theme := range base.Themes {
			themes[name] = theme
		}
		for name, theme := range user.Themes {
			themes[name] = theme
		}
		base.Themes = themes
	}
	return base
}

// Theme resolves the active theme by name, falling back to the
// configured default and then to any theme present.
func (c Config) Theme(name string) ThemeConfig {
	if name == "" {
		name = c.UI.Theme.Default
	}
	if theme, ok := c.Themes[name]; ok {
		return theme
	}
	if theme, ok := c.Themes[c.UI.Theme.Default]; ok {
		return theme
	}
	for _, theme := range c.Themes {
		return theme
	}
	return ThemeConfig{}
}

// Overscan returns the configured overscan with a sane floor.
func (c Config) Overscan() int {
	if c.UI.Grid.Overscan == nil || *c.UI.Grid.Overscan < 0 {
		return 4
	}
	return *c.UI.Grid.Overscan
}

// SearchDebounce returns the search debounce in milliseconds.
func (c Config) SearchDebounce() int {
	if c.UI.Behavior.SearchDebounceMs == nil || *c.UI.Behavior.SearchDebounceMs < 0 {
		return 250
	}
	return *c.UI.Behavior.SearchDebounceMs
}

// SearchResultLimit caps how many search matches are collected.
func (c Config) SearchResultLimit() int {
	if c.UI.Behavior.SearchResultLimit == nil || *c.UI.Behavior.SearchResultLimit <= 0 {
		return 100
	}
	return *c.UI.Behavior.SearchResultLimit
}

// ValuePreviewLimit caps cell preview text length in runes. Zero
// disables the cap.
func (c Config) ValuePreviewLimit() int {
	if c.UI.Behavior.ValuePreviewLimit == nil || *c.UI.Behavior.ValuePreviewLimit < 0 {
		return 80
	}
	return *c.UI.Behavior.ValuePreviewLimit
}

// ConfirmRowDelete reports whether deleting selected rows requires a
// confirmation step.
func (c Config) ConfirmRowDelete() bool {
	if c.UI.Behavior.ConfirmRowDelete == nil {
		return true
	}
	return *c.UI.Behavior.ConfirmRowDelete
}

// StickyHeader reports whether the header row stays pinned while the
// grid scrolls.
func (c Config) StickyHeader() bool {
	if c.UI.Grid.StickyHeader == nil {
		return true
	}
	return *c.UI.Grid.StickyHeader
}
