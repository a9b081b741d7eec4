package builtin

import (
	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/folio/internal/markdown"
	"git.home.luguber.info/inful/folio/internal/plugin"
)

type markdownExtensions struct {
	extenders []goldmark.Extender
}

func newMarkdownExtensions(s plugin.Settings) (plugin.Plugin, error) {
	names := s.Extensions
	if len(names) == 0 {
		names = markdown.DefaultExtensions
	}
	extenders, err := markdown.Extensions(names)
	if err != nil {
		return nil, err
	}
	return &markdownExtensions{extenders: extenders}, nil
}

func (p *markdownExtensions) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        NameMarkdownExtensions,
		Description: "goldmark extensions from markdown.extensions",
		Stage:       plugin.StageMarkdown,
	}
}

func (p *markdownExtensions) Extenders() []goldmark.Extender {
	return append([]goldmark.Extender(nil), p.extenders...)
}
