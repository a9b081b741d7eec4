// Package builtin provides the plugins shipped with folio.
package builtin

import (
	"git.home.luguber.info/inful/folio/internal/plugin"
)

const (
	NameMarkdownExtensions = "markdown-extensions"
	NameLinkRewrite        = "link-rewrite"
	NameIcons              = "icons"
	NameExternalLinks      = "external-links"
	NameCompress           = "compress"
)

// DefaultNames is the plugin set enabled when the configuration names none.
var DefaultNames = []string{
	NameMarkdownExtensions,
	NameLinkRewrite,
	NameIcons,
	NameExternalLinks,
	NameCompress,
}

// NewRegistry returns a registry holding every built-in plugin.
func NewRegistry() *plugin.Registry {
	r := plugin.NewRegistry()
	for name, factory := range map[string]plugin.Factory{
		NameMarkdownExtensions: newMarkdownExtensions,
		NameLinkRewrite:        newLinkRewrite,
		NameIcons:              newIcons,
		NameExternalLinks:      newExternalLinks,
		NameCompress:           newCompress,
	} {
		if err := r.Register(name, factory); err != nil {
			panic(err)
		}
	}
	return r
}

// Names returns the names of the built-in plugins, sorted.
func Names() []string {
	return NewRegistry().Names()
}
