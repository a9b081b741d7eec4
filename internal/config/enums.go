package config

import (
	"log/slog"

	"git.home.luguber.info/inful/folio/internal/foundation/normalization"
)

// OutputMode selects how built assets are hosted. It only affects packaging.
type OutputMode string

const (
	OutputModeStatic OutputMode = "static"
	OutputModeServer OutputMode = "server"
)

var outputModeNormalizer = normalization.NewNormalizer("output mode", map[string]OutputMode{
	"static": OutputModeStatic,
	"server": OutputModeServer,
}, OutputModeStatic)

// DeploymentAdapter identifies the hosting integration.
type DeploymentAdapter string

const (
	AdapterNone        DeploymentAdapter = "none"
	AdapterGitHubPages DeploymentAdapter = "github-pages"
	AdapterNetlify     DeploymentAdapter = "netlify"
	AdapterVercel      DeploymentAdapter = "vercel"
	AdapterNode        DeploymentAdapter = "node"
)

var adapterNormalizer = normalization.NewNormalizer("deployment adapter", map[string]DeploymentAdapter{
	"none":         AdapterNone,
	"github-pages": AdapterGitHubPages,
	"gh-pages":     AdapterGitHubPages,
	"github":       AdapterGitHubPages,
	"netlify":      AdapterNetlify,
	"vercel":       AdapterVercel,
	"node":         AdapterNode,
	"node-server":  AdapterNode,
}, AdapterNone)

// Adapters lists the canonical adapter identifiers.
var Adapters = []DeploymentAdapter{AdapterNone, AdapterGitHubPages, AdapterNetlify, AdapterVercel, AdapterNode}

// SupportsServer reports whether the adapter can host the server output mode.
func (a DeploymentAdapter) SupportsServer() bool {
	switch a {
	case AdapterNone, AdapterNode, AdapterVercel:
		return true
	default:
		return false
	}
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// NormalizeLogLevel maps raw onto a LogLevel, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// SlogLevel converts the level for slog handlers.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer("log format", map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// NormalizeLogFormat maps raw onto a LogFormat, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.Normalize(raw)
}

// normalize canonicalizes enum fields. Unknown values are errors.
func normalize(cfg *Config) error {
	mode, err := outputModeNormalizer.Parse(string(cfg.Output.Mode))
	if err != nil {
		return err
	}
	cfg.Output.Mode = mode

	adapter, err := adapterNormalizer.Parse(string(cfg.Deployment.Adapter))
	if err != nil {
		return err
	}
	cfg.Deployment.Adapter = adapter

	level, err := logLevelNormalizer.Parse(string(cfg.Logging.Level))
	if err != nil {
		return err
	}
	cfg.Logging.Level = level

	format, err := logFormatNormalizer.Parse(string(cfg.Logging.Format))
	if err != nil {
		return err
	}
	cfg.Logging.Format = format
	return nil
}
