// Package config loads scenenav settings from .scenenav/config.yaml,
// SCENENAV_* environment variables and bound command line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the state directory.
const FileName = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. SCENENAV_ROOT.
const EnvPrefix = "SCENENAV"

// Config is the resolved configuration. All paths are absolute.
type Config struct {
	ProjectDir string `yaml:"-"`

	Root      string `yaml:"root"`
	Extension string `yaml:"extension"`
	Registry  string `yaml:"registry"`
	Session   string `yaml:"session"`

	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
	Feed    FeedConfig    `yaml:"feed"`
}

// HistoryConfig controls the SQLite journal.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig controls the rotated log file.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Verbose    bool   `yaml:"verbose"`
}

// FeedConfig controls the websocket feed.
type FeedConfig struct {
	Port int `yaml:"port"`
}

// defaults follow the Unity project layout: scenes live under Assets and use the
// .unity extension.
var defaults = map[string]any{
	"root":            "Assets",
	"extension":       ".unity",
	"registry":        ".scenenav/bookmarks.json",
	"session":         ".scenenav/session.toml",
	"history.enabled": true,
	"history.path":    ".scenenav/history.db",
	"log.file":        ".scenenav/scenenav.log",
	"log.max_size_mb": 5,
	"log.max_backups": 3,
	"log.verbose":     false,
	"feed.port":       8080,
}

// NewViper returns a viper instance with defaults and environment
// overrides configured. Callers may bind flags to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Path returns the config file location for projectDir.
func Path(projectDir string) string {
	return filepath.Join(projectDir, ".scenenav", FileName)
}

// Load reads the project's config file, if present, into v and returns
// the resolved Config.
func Load(v *viper.Viper, projectDir string) (*Config, error) {
	path := Path(projectDir)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		ProjectDir: projectDir,
		Root:       v.GetString("root"),
		Extension:  v.GetString("extension"),
		Registry:   v.GetString("registry"),
		Session:    v.GetString("session"),
		History: HistoryConfig{
			Enabled: v.GetBool("history.enabled"),
			Path:    v.GetString("history.path"),
		},
		Log: LogConfig{
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			Verbose:    v.GetBool("log.verbose"),
		},
		Feed: FeedConfig{
			Port: v.GetInt("feed.port"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Extension = "." + strings.TrimLeft(cfg.Extension, ".")
	cfg.Root = cfg.abs(cfg.Root)
	cfg.Registry = cfg.abs(cfg.Registry)
	cfg.Session = cfg.abs(cfg.Session)
	cfg.History.Path = cfg.abs(cfg.History.Path)
	if cfg.Log.File != "" {
		cfg.Log.File = cfg.abs(cfg.Log.File)
	}

	return cfg, nil
}

// Validate checks values that would make every command fail later.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("root is required")
	}
	if strings.Trim(c.Extension, ".") == "" {
		return fmt.Errorf("extension must not be empty (got %q)", c.Extension)
	}
	if c.Registry == "" {
		return fmt.Errorf("registry path is required")
	}
	if c.Feed.Port < 0 || c.Feed.Port > 65535 {
		return fmt.Errorf("feed.port must be between 0 and 65535 (got %d)", c.Feed.Port)
	}
	return nil
}

func (c *Config) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}

// YAML renders the resolved config.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteDefault writes a config file holding the default settings unless
// one already exists. It reports whether a file was written.
func WriteDefault(projectDir string) (bool, error) {
	path := Path(projectDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	doc := map[string]any{}
	for k, val := range defaults {
		section, key, nested := strings.Cut(k, ".")
		if !nested {
			doc[k] = val
			continue
		}
		sub, _ := doc[section].(map[string]any)
		if sub == nil {
			sub = map[string]any{}
			doc[section] = sub
		}
		sub[key] = val
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return true, nil
}
