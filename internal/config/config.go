// Package config loads the wobj settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the listing and logging preferences.
type Config struct {
	Color         bool   `yaml:"color" json:"color" jsonschema:"title=Color,description=Colourise listings on terminals,default=true"`
	LogLevel      string `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Width         int    `yaml:"width" json:"width" jsonschema:"title=Width,description=Word wrap width for the header report (0 uses the terminal width),minimum=0"`
	ShowAddresses bool   `yaml:"show_addresses" json:"show_addresses" jsonschema:"title=Show Addresses,description=Print the address column"`
	ShowWords     bool   `yaml:"show_words" json:"show_words" jsonschema:"title=Show Words,description=Print the raw instruction word column"`
	ResolveLabels bool   `yaml:"resolve_labels" json:"resolve_labels" jsonschema:"title=Resolve Labels,description=Print jump and branch targets by label name,default=true"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Color:         true,
		LogLevel:      "info",
		ResolveLabels: true,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/wobj/config.yaml, falling back to the
// user config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "wobj", "config.yaml")
}

// Load reads path, or $WOBJ_CONFIG, or DefaultPath when path is empty. An
// explicitly named file must exist; a missing default file yields Default.
func Load(path string) (Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv("WOBJ_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
		explicit = false
	}

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if cfg, err = Decode(f); err != nil {
				return cfg, fmt.Errorf("config %s: %w", path, err)
			}
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, fmt.Errorf("open config: %w", err)
		}
	}

	if os.Getenv("WOBJ_NO_COLOR") != "" {
		cfg.Color = false
	}
	return cfg, nil
}

// Decode parses YAML from r over Default. An empty document is not an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), err
	}
	if cfg.Width < 0 {
		return Default(), fmt.Errorf("width %d is negative", cfg.Width)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		cfg.LogLevel = "info"
	default:
		return Default(), fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return cfg, nil
}
