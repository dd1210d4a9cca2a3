// Package config loads doomfront settings and project manifests.
//
// Settings come from defaults, an optional config file and DOOMFRONT_*
// environment variables, in increasing order of precedence. The project
// manifest, doomfront.toml at a workspace root, describes the project
// itself: its include roots, ignored paths and extra file extensions.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/doomfront/doomfront/token"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "DOOMFRONT"

// Config holds the user settings.
type Config struct {
	Workers   int           `json:"workers" yaml:"workers" mapstructure:"workers"`
	MaxErrors int           `json:"maxErrors" yaml:"maxErrors" mapstructure:"max_errors"`
	MaxDepth  int           `json:"maxDepth" yaml:"maxDepth" mapstructure:"max_depth"`
	Debounce  time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`
	Log       LogConfig     `json:"log" yaml:"log" mapstructure:"log"`

	// Extensions maps file extensions or lump names to dialect names, on
	// top of token.DefaultExtensions.
	Extensions map[string]string `json:"extensions,omitempty" yaml:"extensions,omitempty" mapstructure:"extensions"`

	// Builtins replaces the engine type names that are never reported as
	// unresolved. Empty keeps the workspace default.
	Builtins []string `json:"builtins,omitempty" yaml:"builtins,omitempty" mapstructure:"builtins"`

	// File is the config file that was read, if any.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"-"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Workers:   0,
		MaxErrors: 100,
		MaxDepth:  500,
		Debounce:  150 * time.Millisecond,
		Log: LogConfig{
			Level:  "warn",
			Format: "auto",
		},
	}
}

// Error describes an invalid setting.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// Load reads the settings. An empty path looks for config.{yaml,toml,json}
// in ~/.config/doomfront and is not an error when none exists; an explicit
// path must exist. A leading "~" in path is expanded.
func Load(path string) (*Config, error) {
	// Extension keys contain dots, so nested keys use another delimiter.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	def := Default()
	v.SetDefault("workers", def.Workers)
	v.SetDefault("max_errors", def.MaxErrors)
	v.SetDefault("max_depth", def.MaxDepth)
	v.SetDefault("debounce", def.Debounce)
	v.SetDefault("log::level", def.Log.Level)
	v.SetDefault("log::format", def.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("::", "_"))
	v.AutomaticEnv()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName("config")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "doomfront"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return &Error{Field: "workers", Message: "must not be negative"}
	}
	if c.MaxErrors < 0 {
		return &Error{Field: "max_errors", Message: "must not be negative"}
	}
	if c.MaxDepth < 0 {
		return &Error{Field: "max_depth", Message: "must not be negative"}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "console", "json":
	default:
		return &Error{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	if _, err := c.ExtensionTable(); err != nil {
		return &Error{Field: "extensions", Message: err.Error()}
	}
	return nil
}

// ExtensionTable returns token.DefaultExtensions overlaid with the
// configured extensions.
func (c *Config) ExtensionTable() (map[string]token.Dialect, error) {
	return extensionTable(c.Extensions)
}

func extensionTable(extra map[string]string) (map[string]token.Dialect, error) {
	table := make(map[string]token.Dialect, len(token.DefaultExtensions)+len(extra))
	for k, d := range token.DefaultExtensions {
		table[k] = d
	}
	for k, name := range extra {
		d, err := token.ParseDialect(name)
		if err != nil {
			return nil, fmt.Errorf("extension %q: %w", k, err)
		}
		table[strings.ToLower(k)] = d
	}
	return table, nil
}
