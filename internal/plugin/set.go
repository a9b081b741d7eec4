package plugin

import (
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
)

// Set is an ordered, read-only collection of plugins.
type Set struct {
	ordered []Plugin
}

// NewSet orders plugins. Duplicate names, unknown stages, and dependency
// cycles are errors.
func NewSet(plugins ...Plugin) (*Set, error) {
	ordered, err := Order(plugins)
	if err != nil {
		return nil, err
	}
	return &Set{ordered: ordered}, nil
}

// Plugins returns the plugins in execution order.
func (s *Set) Plugins() []Plugin {
	if s == nil {
		return nil
	}
	return append([]Plugin(nil), s.ordered...)
}

// Names returns plugin names in execution order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.ordered))
	for i, p := range s.ordered {
		names[i] = p.Metadata().Name
	}
	return names
}

// Extenders collects the goldmark extensions of the markdown-stage plugins.
func (s *Set) Extenders() []goldmark.Extender {
	var out []goldmark.Extender
	for _, p := range s.Plugins() {
		if mp, ok := p.(MarkdownPlugin); ok && p.Metadata().Stage == StageMarkdown {
			out = append(out, mp.Extenders()...)
		}
	}
	return out
}

// TransformDocument runs the document-stage plugins in order.
func (s *Set) TransformDocument(dc *DocumentContext, root ast.Node) error {
	for _, p := range s.Plugins() {
		dp, ok := p.(DocumentPlugin)
		if !ok || p.Metadata().Stage != StageDocument {
			continue
		}
		if err := dp.TransformDocument(dc, root); err != nil {
			return failure(p.Metadata().Name, "transform document", err)
		}
	}
	return nil
}

// TransformHTML runs the html-stage plugins in order.
func (s *Set) TransformHTML(dc *DocumentContext, fragment []byte) ([]byte, error) {
	out := fragment
	for _, p := range s.Plugins() {
		hp, ok := p.(HTMLPlugin)
		if !ok || p.Metadata().Stage != StageHTML {
			continue
		}
		next, err := hp.TransformHTML(dc, out)
		if err != nil {
			return nil, failure(p.Metadata().Name, "transform html", err)
		}
		out = next
	}
	return out, nil
}

// ProcessArtifact runs the artifact-stage plugins in order.
func (s *Set) ProcessArtifact(ctx context.Context, artifact Artifact) error {
	for _, p := range s.Plugins() {
		ap, ok := p.(ArtifactPlugin)
		if !ok || p.Metadata().Stage != StageArtifact {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ap.ProcessArtifact(ctx, artifact); err != nil {
			return failure(p.Metadata().Name, "process artifact", err)
		}
	}
	return nil
}
