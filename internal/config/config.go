// Package config loads the folio.yaml site configuration.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// DefaultFilename is the configuration file looked up when none is given.
const DefaultFilename = "folio.yaml"

// Config is the complete site configuration. It is loaded once per build and
// treated as read-only afterwards.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Content    ContentConfig    `yaml:"content"`
	Markdown   MarkdownConfig   `yaml:"markdown"`
	Plugins    PluginsConfig    `yaml:"plugins"`
	Output     OutputConfig     `yaml:"output"`
	Deployment DeploymentConfig `yaml:"deployment"`
	Build      BuildConfig      `yaml:"build"`
	Logging    LoggingConfig    `yaml:"logging"`

	// baseDir anchors relative paths; it is the directory of the loaded file.
	baseDir string
}

// SiteConfig holds site-wide metadata used by the layouts.
type SiteConfig struct {
	Title       string `yaml:"title"`
	BaseURL     string `yaml:"base_url"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
	Language    string `yaml:"language,omitempty"`
}

// ContentConfig locates the content store.
type ContentConfig struct {
	Directory       string `yaml:"directory"`
	StaticDirectory string `yaml:"static_directory"`
	GitLastmod      bool   `yaml:"git_lastmod"`
}

// MarkdownConfig controls markdown rendering and code highlighting.
type MarkdownConfig struct {
	HighlightTheme      string   `yaml:"highlight_theme"`
	RecognizedLanguages []string `yaml:"recognized_languages"`
	Extensions          []string `yaml:"extensions"`
	LineNumbers         bool     `yaml:"line_numbers"`
	HardWraps           bool     `yaml:"hard_wraps,omitempty"`
}

// PluginsConfig selects and configures the plugin set. A nil Enabled list
// means the default set; an explicit empty list disables every plugin.
type PluginsConfig struct {
	Enabled  []string       `yaml:"enabled"`
	Icons    IconsConfig    `yaml:"icons"`
	Compress CompressConfig `yaml:"compress"`
}

type IconsConfig struct {
	Directory string `yaml:"directory,omitempty"`
}

type CompressConfig struct {
	MinBytes int `yaml:"min_bytes"`
}

// OutputConfig controls where and how the site is written.
type OutputConfig struct {
	Directory string     `yaml:"directory"`
	Mode      OutputMode `yaml:"mode"`
	Clean     bool       `yaml:"clean"`
}

// DeploymentConfig selects the packaging target.
type DeploymentConfig struct {
	Adapter DeploymentAdapter `yaml:"adapter"`
	CNAME   string            `yaml:"cname,omitempty"`
}

// BuildConfig controls the build driver.
type BuildConfig struct {
	Jobs     int  `yaml:"jobs"`
	FailFast bool `yaml:"fail_fast"`
	Drafts   bool `yaml:"drafts"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads, expands, normalizes, defaults, and validates a configuration file.
//
// .env and .env.local next to the file are loaded first so ${VAR} references
// can use them; variables already set in the environment win.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to resolve config path").
			WithContext("path", configPath).
			Build()
	}
	baseDir := filepath.Dir(absPath)
	loadEnvFiles(baseDir)

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
				WithContext("path", configPath).
				UserAction().
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data, baseDir)
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("path", configPath)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse builds a configuration from YAML bytes. Relative paths are resolved
// against baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").
			UserAction().
			Build()
	}
	cfg.baseDir = baseDir

	if err := normalize(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").
			UserAction().
			Build()
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "configuration validation failed").
			UserAction().
			Build()
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, rooted at baseDir.
func Default(baseDir string) *Config {
	cfg := &Config{baseDir: baseDir}
	applyDefaults(cfg)
	return cfg
}

// BaseDir returns the directory relative paths are resolved against.
func (c *Config) BaseDir() string { return c.baseDir }

// ResolvePath anchors p at the configuration directory unless it is absolute.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// ContentDir returns the absolute content directory.
func (c *Config) ContentDir() string { return c.ResolvePath(c.Content.Directory) }

// StaticDir returns the absolute static directory.
func (c *Config) StaticDir() string { return c.ResolvePath(c.Content.StaticDirectory) }

// OutputDir returns the absolute output directory.
func (c *Config) OutputDir() string { return c.ResolvePath(c.Output.Directory) }

// IconsDir returns the absolute icons directory, or "" when unset.
func (c *Config) IconsDir() string { return c.ResolvePath(c.Plugins.Icons.Directory) }
