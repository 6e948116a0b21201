// Package config loads tabedit's on-disk YAML configuration with
// spf13/viper and mapstructure, and keeps a live core.Config in sync with
// the file via fsnotify so ":set" and external edits both take effect
// without a restart.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/ionut-t/tabedit/core"
	"github.com/ionut-t/tabedit/internal/log"
)

// BindingConfig is a single chord-to-action mapping for one mode, keyed by
// the literal key text (e.g. "dd", "ctrl+v").
type BindingConfig map[string]string

// FileConfig is the on-disk shape of the config file. The four keys that
// core.Config.ApplySet accepts via ":set" use the same names here;
// delimiter and bindings can only be set in the file.
type FileConfig struct {
	MaxColumnWidth      int                      `mapstructure:"max_column_width"`
	VimMode             bool                     `mapstructure:"vim_mode"`
	ColorTheme          string                   `mapstructure:"color_theme"`
	CaseSensitiveSearch bool                     `mapstructure:"case_sensitive_search"`
	Delimiter           string                   `mapstructure:"delimiter"` // "tab", "comma", or a literal single char
	Bindings            map[string]BindingConfig `mapstructure:"bindings"`  // mode name -> chord -> action
}

// Defaults returns the FileConfig equivalent of core.DefaultConfig, used
// both to seed a freshly written config file and as the viper defaults
// layer so a partial file only overrides what it names.
func Defaults() FileConfig {
	return FileConfig{
		MaxColumnWidth:      32,
		VimMode:             true,
		ColorTheme:          "dark",
		CaseSensitiveSearch: false,
		Delimiter:           "tab",
	}
}

// ToCore converts the file shape into the runtime core.Config, applying
// any custom bindings on top of the built-in defaults.
func (f FileConfig) ToCore() *core.Config {
	cfg := core.DefaultConfig()
	cfg.MaxColumnWidth = f.MaxColumnWidth
	cfg.VimMode = f.VimMode
	cfg.CaseSensitiveSearch = f.CaseSensitiveSearch
	switch f.ColorTheme {
	case "light":
		cfg.ColorTheme = core.ThemeLight
	case "dark", "":
		cfg.ColorTheme = core.ThemeDark
	}
	cfg.Delimiter = delimRune(f.Delimiter)

	for mode, chords := range f.Bindings {
		for key, action := range chords {
			cfg.Bindings.Set(core.Mode(mode), key, action)
		}
	}
	return cfg
}

func delimRune(s string) rune {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comma", ",":
		return ','
	case "tab", "", "\t":
		return '\t'
	default:
		r := []rune(s)
		if len(r) == 1 {
			return r[0]
		}
		return '\t'
	}
}

// Loader owns the viper instance backing a loaded config so Watch can be
// attached after Load returns.
type Loader struct {
	v *viper.Viper
}

// Load reads path (creating it with Defaults if it does not exist) and
// returns the resolved core.Config alongside a Loader for live-reload.
// An empty path uses "~/.config/tabedit/config.yaml".
func Load(path string) (*core.Config, *Loader, error) {
	if path == "" {
		path = defaultPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := WriteDefault(path); err != nil {
			return nil, nil, fmt.Errorf("writing default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, Defaults())

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc FileConfig
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&fc, decodeHook); err != nil {
		return nil, nil, fmt.Errorf("decoding config %s: %w", path, err)
	}

	return fc.ToCore(), &Loader{v: v}, nil
}

func setDefaults(v *viper.Viper, fc FileConfig) {
	v.SetDefault("max_column_width", fc.MaxColumnWidth)
	v.SetDefault("vim_mode", fc.VimMode)
	v.SetDefault("color_theme", fc.ColorTheme)
	v.SetDefault("case_sensitive_search", fc.CaseSensitiveSearch)
	v.SetDefault("delimiter", fc.Delimiter)
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tabedit.yaml"
	}
	return filepath.Join(home, ".config", "tabedit", "config.yaml")
}

// Watch starts an fsnotify watch on the config file (via viper's
// WatchConfig) and applies every change to cfg in place, so callers that
// hold onto the *core.Config pointer see updates without re-wiring. onChange
// is invoked after each successful reload, typically to repaint the view.
func (l *Loader) Watch(cfg *core.Config, onChange func()) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		var fc FileConfig
		if err := l.v.Unmarshal(&fc); err != nil {
			log.ErrorErr(log.CatConfig, "config reload failed", err, "path", e.Name)
			return
		}
		applyInPlace(cfg, fc.ToCore())
		log.Info(log.CatConfig, "config reloaded", "path", e.Name)
		if onChange != nil {
			onChange()
		}
	})
	l.v.WatchConfig()
}

// applyInPlace copies every field of src onto dst without replacing the
// pointer, since the engine and adapter both hold a reference to dst.
func applyInPlace(dst *core.Config, src *core.Config) {
	dst.MaxColumnWidth = src.MaxColumnWidth
	dst.VimMode = src.VimMode
	dst.ColorTheme = src.ColorTheme
	dst.CaseSensitiveSearch = src.CaseSensitiveSearch
	dst.Delimiter = src.Delimiter
	dst.Bindings = src.Bindings
}

// WriteDefault writes a commented default config to path, creating parent
// directories as needed.
func WriteDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	log.Info(log.CatConfig, "wrote default config", "path", path)
	return nil
}

const defaultTemplate = `# tabedit configuration

# Maximum rendered width (in columns) for any single cell.
max_column_width: 32

# Enable vim-style modal keybindings.
vim_mode: true

# "dark" or "light".
color_theme: dark

# Whether / and ? searches are case sensitive by default.
case_sensitive_search: false

# Field delimiter used when copying cells to the system clipboard and
# reading them back: "tab" or "comma". Files always take their delimiter
# from the extension (.csv -> comma, anything else -> tab).
delimiter: tab

# Custom key bindings, overriding the built-in chord -> action table.
# bindings:
#   normal:
#     "gg": goto_top
#     "dd": delete_row
`
