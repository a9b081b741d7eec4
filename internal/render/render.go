package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/folio/internal/docmodel"
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/markdown"
	"git.home.luguber.info/inful/folio/internal/plugin"
)

// summaryLimit caps the derived summary, in runes.
const summaryLimit = 200

// Environment is the per-document input the renderer cannot derive itself.
type Environment struct {
	Permalink string
	Links     plugin.LinkResolver
	Logger    *slog.Logger
}

// CodeBlock describes one fenced code block of a document.
type CodeBlock struct {
	Language    string
	Line        int
	Highlighted bool
}

// Heading is a section heading, in document order.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// DisplayDocument is the rendered form of a document.
type DisplayDocument struct {
	Path string
	// Root is the transformed AST; it indexes into Source.
	Root       ast.Node
	Source     []byte
	HTML       []byte
	CodeBlocks []CodeBlock
	Headings   []Heading
	// Summary is the description front matter, else the first paragraph.
	Summary  string
	Warnings []*errors.ClassifiedError
}

// Highlighted reports whether any code block was highlighted.
func (d *DisplayDocument) Highlighted() bool {
	for _, b := range d.CodeBlocks {
		if b.Highlighted {
			return true
		}
	}
	return false
}

// Render converts doc into a DisplayDocument. doc is not modified: the AST
// is built over a private copy of the body.
func (c *Configuration) Render(doc *docmodel.Document, env Environment) (*DisplayDocument, error) {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(logfields.Document(doc.Path()))

	source := doc.Body()
	root := markdown.Parse(c.engine, source)

	dc := &plugin.DocumentContext{
		Path:      doc.Path(),
		Source:    source,
		Permalink: env.Permalink,
		Links:     env.Links,
		LineOf: func(needle string) int {
			return doc.FileLine(doc.FindNextLineContaining(needle, 1))
		},
		Logger: logger,
	}
	if err := c.Plugins.TransformDocument(dc, root); err != nil {
		return nil, errors.WrapError(err, errors.CategoryPlugin, "document transform failed").
			WithContext("path", doc.Path()).
			Build()
	}

	out := &DisplayDocument{
		Path:   doc.Path(),
		Root:   root,
		Source: source,
	}
	c.inspect(doc, out, logger)

	var buf bytes.Buffer
	if err := c.engine.Renderer().Render(&buf, source, root); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "markdown rendering failed").
			WithContext("path", doc.Path()).
			Build()
	}

	html, err := c.Plugins.TransformHTML(dc, buf.Bytes())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryPlugin, "html transform failed").
			WithContext("path", doc.Path()).
			Build()
	}
	out.HTML = html

	for _, w := range dc.Warnings() {
		out.Warnings = append(out.Warnings, errors.PluginError(ErrPluginWarning.Message()).
			Warning().
			At(doc.Path(), w.Line).
			WithContext("plugin", w.Plugin).
			WithContext("detail", w.Message).
			Build())
		logger.Warn("Plugin warning", logfields.Plugin(w.Plugin), logfields.Line(w.Line), slog.String("detail", w.Message))
	}

	if out.Summary == "" {
		out.Summary = doc.String("description")
	}
	return out, nil
}

// inspect walks the transformed AST collecting code blocks, headings, and the
// first paragraph.
func (c *Configuration) inspect(doc *docmodel.Document, out *DisplayDocument, logger *slog.Logger) {
	var firstParagraph string
	description := doc.String("description")

	_ = ast.Walk(out.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			tag := markdown.BlockLanguage(node, out.Source)
			block := CodeBlock{
				Language:    tag,
				Line:        doc.FileLine(fenceLine(node, out.Source)),
				Highlighted: c.highlighter.Recognizes(tag),
			}
			out.CodeBlocks = append(out.CodeBlocks, block)
			if tag != "" && !block.Highlighted {
				out.Warnings = append(out.Warnings, errors.RenderError(ErrUnrecognizedLanguageTag.Message()).
					Warning().
					At(doc.Path(), block.Line).
					WithContext("language", tag).
					Build())
				logger.Warn("Unrecognized language tag, rendering as plain text",
					logfields.Language(tag), logfields.Line(block.Line))
			}
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			h := Heading{Level: node.Level, Text: markdown.NodeText(node, out.Source)}
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					h.ID = string(b)
				}
			}
			out.Headings = append(out.Headings, h)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if firstParagraph == "" && description == "" {
				firstParagraph = strings.TrimSpace(markdown.NodeText(node, out.Source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	if description == "" {
		out.Summary = truncate(firstParagraph, summaryLimit)
	}
}

// fenceLine returns the 1-based body line of a fenced block's opening fence.
func fenceLine(n *ast.FencedCodeBlock, source []byte) int {
	switch {
	case n.Info != nil:
		return lineAt(source, n.Info.Segment.Start)
	case n.Lines().Len() > 0:
		return lineAt(source, n.Lines().At(0).Start) - 1
	default:
		return 1
	}
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > limit/2 {
		cut = cut[:i]
	}
	return fmt.Sprintf("%s…", strings.TrimRight(cut, " ,.;:"))
}
