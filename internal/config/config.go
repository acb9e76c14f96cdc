// Package config loads rnav settings from YAML. Values are layered: built-in
// defaults first, then the user file. A missing file leaves the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kk-code-lab/rnav/internal/keymap"
	"github.com/kk-code-lab/rnav/internal/listing"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

const (
	configDirName  = "rnav"
	configFileName = "config.yaml"
)

// LogConfig selects the log level and file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the merged configuration.
type Config struct {
	ShowHidden bool                           `yaml:"show_hidden"`
	DirsFirst  bool                           `yaml:"dirs_first"`
	Sort       string                         `yaml:"sort"`
	MetaAll    bool                           `yaml:"meta_all"`
	Shell      string                         `yaml:"shell"`
	Editor     string                         `yaml:"editor"`
	Editors    []string                       `yaml:"editors"`
	Log        LogConfig                      `yaml:"log"`
	Keybinds   map[string]map[string][]string `yaml:"keybinds"`
}

// fileConfig mirrors Config with optional fields so that a value missing
// from the file does not override the layer below it.
type fileConfig struct {
	ShowHidden *bool    `yaml:"show_hidden"`
	DirsFirst  *bool    `yaml:"dirs_first"`
	Sort       *string  `yaml:"sort"`
	MetaAll    *bool    `yaml:"meta_all"`
	Shell      *string  `yaml:"shell"`
	Editor     *string  `yaml:"editor"`
	Editors    []string `yaml:"editors"`
	Log        struct {
		Level *string `yaml:"level"`
		File  *string `yaml:"file"`
	} `yaml:"log"`
	Keybinds map[string]map[string][]string `yaml:"keybinds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DirsFirst: true,
		Sort:      "name",
		Editors:   DefaultEditors(runtime.GOOS),
		Log:       LogConfig{Level: "info"},
	}
}

// DefaultEditors lists the editor commands tried when neither editor nor
// $VISUAL and $EDITOR name one that exists.
func DefaultEditors(goos string) []string {
	if goos == "windows" {
		return []string{"code --wait", "notepad++.exe", "notepad.exe"}
	}
	return []string{"vim", "nano", "vi"}
}

// DefaultPath returns $XDG_CONFIG_HOME/rnav/config.yaml, falling back to
// ~/.config/rnav/config.yaml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, configDirName, configFileName), nil
	}
	home, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", configDirName, configFileName), nil
}

// Load layers the file at path over the defaults and validates the result.
// An empty path means DefaultPath. Only an explicitly given path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	overlay, err := loadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
		return cfg, nil
	case err != nil:
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}

	cfg = merge(cfg, overlay)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, err
	}
	return fc, nil
}

func merge(base Config, overlay fileConfig) Config {
	merged := base
	if overlay.ShowHidden != nil {
		merged.ShowHidden = *overlay.ShowHidden
	}
	if overlay.DirsFirst != nil {
		merged.DirsFirst = *overlay.DirsFirst
	}
	if overlay.Sort != nil {
		merged.Sort = *overlay.Sort
	}
	if overlay.MetaAll != nil {
		merged.MetaAll = *overlay.MetaAll
	}
	if overlay.Shell != nil {
		merged.Shell = *overlay.Shell
	}
	if overlay.Editor != nil {
		merged.Editor = *overlay.Editor
	}
	if overlay.Editors != nil {
		merged.Editors = overlay.Editors
	}
	if overlay.Log.Level != nil {
		merged.Log.Level = *overlay.Log.Level
	}
	if overlay.Log.File != nil {
		merged.Log.File = *overlay.Log.File
	}

	if len(overlay.Keybinds) > 0 {
		binds := make(map[string]map[string][]string, len(base.Keybinds)+len(overlay.Keybinds))
		for mode, actions := range base.Keybinds {
			binds[mode] = make(map[string][]string, len(actions))
			for action, keys := range actions {
				binds[mode][action] = keys
			}
		}
		for mode, actions := range overlay.Keybinds {
			if binds[mode] == nil {
				binds[mode] = make(map[string][]string, len(actions))
			}
			for action, keys := range actions {
				binds[mode][action] = keys
			}
		}
		merged.Keybinds = binds
	}
	return merged
}

// Validate reports every problem found, each wrapping ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	if _, err := listing.ParseSortKey(c.Sort); err != nil {
		errs = append(errs, fmt.Errorf("%w: sort: %w", ErrInvalid, err))
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("%w: log.level: %w", ErrInvalid, err))
		}
	}
	if _, err := keymap.New(c.overrides()); err != nil {
		errs = append(errs, fmt.Errorf("%w: keybinds: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// SortKey returns the parsed sort key; call Validate first.
func (c Config) SortKey() listing.SortKey {
	key, _ := listing.ParseSortKey(c.Sort)
	return key
}

// Keymap returns the default bindings with the configured overrides applied.
func (c Config) Keymap() (*keymap.Keymap, error) {
	return keymap.New(c.overrides())
}

func (c Config) overrides() map[keymap.Mode]map[keymap.Action][]string {
	if len(c.Keybinds) == 0 {
		return nil
	}
	out := make(map[keymap.Mode]map[keymap.Action][]string, len(c.Keybinds))
	for mode, actions := range c.Keybinds {
		m := make(map[keymap.Action][]string, len(actions))
		for action, keys := range actions {
			m[keymap.Action(action)] = keys
		}
		out[keymap.Mode(mode)] = m
	}
	return out
}
