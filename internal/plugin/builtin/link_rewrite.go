package builtin

import (
	"fmt"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/folio/internal/docmodel"
	"git.home.luguber.info/inful/folio/internal/plugin"
)

// linkRewrite turns relative links to markdown sources into the permalink of
// the page built from them.
type linkRewrite struct{}

func newLinkRewrite(plugin.Settings) (plugin.Plugin, error) {
	return linkRewrite{}, nil
}

func (linkRewrite) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        NameLinkRewrite,
		Description: "rewrite links to .md sources into permalinks",
		Stage:       plugin.StageDocument,
	}
}

func (linkRewrite) TransformDocument(dc *plugin.DocumentContext, root ast.Node) error {
	if dc.Links == nil {
		return nil
	}
	return ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}

		dest := string(link.Destination)
		resolved, suffix, ok := docmodel.ContentLink(dc.Path, dest)
		if !ok {
			return ast.WalkContinue, nil
		}

		permalink, found := dc.Links.Permalink(resolved)
		if !found {
			dc.Warn(NameLinkRewrite, dc.Line(dest), fmt.Sprintf("link target %q does not match a content document", dest))
			return ast.WalkContinue, nil
		}
		link.Destination = []byte(permalink + suffix)
		return ast.WalkContinue, nil
	})
}
