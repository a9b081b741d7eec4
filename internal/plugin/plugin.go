// Package plugin defines the content transformation plugins applied to every
// document during a build, and resolves them into a fixed execution order.
//
// Plugins run in four stages. Markdown-stage plugins contribute goldmark
// extensions before parsing. Document-stage plugins rewrite the parsed AST.
// HTML-stage plugins rewrite the rendered fragment. Artifact-stage plugins
// process files after they are written to the output directory.
package plugin

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
)

// Stage identifies when a plugin runs.
type Stage string

const (
	StageMarkdown Stage = "markdown"
	StageDocument Stage = "document"
	StageHTML     Stage = "html"
	StageArtifact Stage = "artifact"
)

// StageOrder is the order in which stages execute.
var StageOrder = []Stage{StageMarkdown, StageDocument, StageHTML, StageArtifact}

// IsValid reports whether s is a known stage.
func (s Stage) IsValid() bool {
	for _, known := range StageOrder {
		if s == known {
			return true
		}
	}
	return false
}

// Dependencies orders plugins within a stage. Names outside the stage are
// ignored; stage order already covers them.
type Dependencies struct {
	MustRunAfter  []string
	MustRunBefore []string
}

// Metadata describes a plugin.
type Metadata struct {
	Name         string
	Description  string
	Stage        Stage
	Dependencies Dependencies
}

// Validate checks the metadata is usable.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if !m.Stage.IsValid() {
		return fmt.Errorf("plugin %q has invalid stage %q", m.Name, m.Stage)
	}
	return nil
}

// Plugin is the common interface. Each plugin also implements the interface
// of its stage.
type Plugin interface {
	Metadata() Metadata
}

// MarkdownPlugin contributes goldmark extensions.
type MarkdownPlugin interface {
	Plugin
	Extenders() []goldmark.Extender
}

// DocumentPlugin rewrites the parsed markdown AST of one document.
type DocumentPlugin interface {
	Plugin
	TransformDocument(dc *DocumentContext, root ast.Node) error
}

// HTMLPlugin rewrites the rendered HTML fragment of one document.
type HTMLPlugin interface {
	Plugin
	TransformHTML(dc *DocumentContext, fragment []byte) ([]byte, error)
}

// ArtifactPlugin processes a file after it was written to the output.
type ArtifactPlugin interface {
	Plugin
	ProcessArtifact(ctx context.Context, artifact Artifact) error
}

func implementsStage(p Plugin) bool {
	switch p.Metadata().Stage {
	case StageMarkdown:
		_, ok := p.(MarkdownPlugin)
		return ok
	case StageDocument:
		_, ok := p.(DocumentPlugin)
		return ok
	case StageHTML:
		_, ok := p.(HTMLPlugin)
		return ok
	case StageArtifact:
		_, ok := p.(ArtifactPlugin)
		return ok
	}
	return false
}
