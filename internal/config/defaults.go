package config

import (
	"runtime"
	"strings"

	"github.com/samber/lo"

	"git.home.luguber.info/inful/folio/internal/markdown"
	"git.home.luguber.info/inful/folio/internal/plugin/builtin"
)

// DefaultRecognizedLanguages are highlighted when the configuration names none.
var DefaultRecognizedLanguages = []string{
	"bash", "c", "cpp", "css", "diff", "dockerfile", "go", "html", "java",
	"javascript", "json", "python", "rust", "shell", "sql", "toml",
	"typescript", "yaml",
}

const (
	defaultHighlightTheme = "monokai"
	defaultContentDir     = "content"
	defaultStaticDir      = "static"
	defaultOutputDir      = "public"
	defaultSiteTitle      = "Portfolio"
)

// applyDefaults fills unset fields. It runs after normalize so enum defaults
// are already canonical.
func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = defaultSiteTitle
	}
	if cfg.Site.Language == "" {
		cfg.Site.Language = "en"
	}

	if cfg.Content.Directory == "" {
		cfg.Content.Directory = defaultContentDir
	}
	if cfg.Content.StaticDirectory == "" {
		cfg.Content.StaticDirectory = defaultStaticDir
	}

	if cfg.Markdown.HighlightTheme == "" {
		cfg.Markdown.HighlightTheme = defaultHighlightTheme
	}
	if cfg.Markdown.RecognizedLanguages == nil {
		cfg.Markdown.RecognizedLanguages = append([]string(nil), DefaultRecognizedLanguages...)
	}
	cfg.Markdown.RecognizedLanguages = lo.Uniq(lo.FilterMap(cfg.Markdown.RecognizedLanguages, func(s string, _ int) (string, bool) {
		s = strings.ToLower(strings.TrimSpace(s))
		return s, s != ""
	}))
	if cfg.Markdown.Extensions == nil {
		cfg.Markdown.Extensions = append([]string(nil), markdown.DefaultExtensions...)
	}

	if cfg.Plugins.Enabled == nil {
		cfg.Plugins.Enabled = append([]string(nil), builtin.DefaultNames...)
	}
	if cfg.Plugins.Compress.MinBytes <= 0 {
		cfg.Plugins.Compress.MinBytes = builtin.DefaultCompressMinBytes
	}

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = defaultOutputDir
	}
	if cfg.Output.Mode == "" {
		cfg.Output.Mode = OutputModeStatic
	}
	if cfg.Deployment.Adapter == "" {
		cfg.Deployment.Adapter = AdapterNone
	}

	if cfg.Build.Jobs <= 0 {
		cfg.Build.Jobs = runtime.GOMAXPROCS(0)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}
