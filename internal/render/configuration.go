// Package render turns content documents into display documents: a goldmark
// AST plus the HTML fragment, code block inventory, headings, and warnings
// derived from it.
package render

import (
	"net/url"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/markdown"
	"git.home.luguber.info/inful/folio/internal/plugin"
	"git.home.luguber.info/inful/folio/internal/plugin/builtin"
)

// Configuration is the read-only rendering setup shared by every document of
// a build. Construct it with NewConfiguration or FromConfig.
type Configuration struct {
	HighlightTheme      string
	RecognizedLanguages []string
	LineNumbers         bool
	HardWraps           bool
	Plugins             *plugin.Set

	highlighter *markdown.Highlighter
	engine      goldmark.Markdown
}

// Options are the inputs of NewConfiguration.
type Options struct {
	HighlightTheme      string
	RecognizedLanguages []string
	LineNumbers         bool
	HardWraps           bool
	// Plugins may be nil for a bare CommonMark renderer.
	Plugins *plugin.Set
}

// NewConfiguration resolves the highlight theme and assembles the goldmark
// engine from the markdown-stage plugins.
func NewConfiguration(opts Options) (*Configuration, error) {
	hl, err := markdown.NewHighlighter(opts.HighlightTheme, opts.RecognizedLanguages, opts.LineNumbers)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid render configuration").
			WithContext("theme", opts.HighlightTheme).
			UserAction().
			Build()
	}

	return &Configuration{
		HighlightTheme:      opts.HighlightTheme,
		RecognizedLanguages: append([]string(nil), opts.RecognizedLanguages...),
		LineNumbers:         opts.LineNumbers,
		HardWraps:           opts.HardWraps,
		Plugins:             opts.Plugins,
		highlighter:         hl,
		engine: markdown.NewEngine(markdown.Options{
			Extenders:   opts.Plugins.Extenders(),
			Highlighter: hl,
			HardWraps:   opts.HardWraps,
		}),
	}, nil
}

// FromConfig builds the plugin set named by cfg and the render configuration
// around it. fs resolves the icons directory.
func FromConfig(cfg *config.Config, fs afero.Fs) (*Configuration, error) {
	set, err := builtin.NewRegistry().Build(cfg.Plugins.Enabled, PluginSettings(cfg, fs))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryPlugin, "failed to build plugin set").
			WithContext("plugins", cfg.Plugins.Enabled).
			UserAction().
			Build()
	}

	return NewConfiguration(Options{
		HighlightTheme:      cfg.Markdown.HighlightTheme,
		RecognizedLanguages: cfg.Markdown.RecognizedLanguages,
		LineNumbers:         cfg.Markdown.LineNumbers,
		HardWraps:           cfg.Markdown.HardWraps,
		Plugins:             set,
	})
}

// PluginSettings derives the plugin settings from cfg.
func PluginSettings(cfg *config.Config, fs afero.Fs) plugin.Settings {
	var host string
	if u, err := url.Parse(cfg.Site.BaseURL); err == nil {
		host = u.Hostname()
	}
	return plugin.Settings{
		Extensions:       cfg.Markdown.Extensions,
		IconsDir:         cfg.IconsDir(),
		CompressMinBytes: cfg.Plugins.Compress.MinBytes,
		SiteHost:         host,
		Fs:               fs,
	}
}

// Highlighter returns the code highlighter.
func (c *Configuration) Highlighter() *markdown.Highlighter { return c.highlighter }
