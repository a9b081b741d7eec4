// Package markdown configures the goldmark engine used to turn document
// bodies into HTML, including syntax highlighting of fenced code blocks.
package markdown

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Options controls how the engine is assembled.
type Options struct {
	// Extenders are added in order, typically from the markdown-stage plugins.
	Extenders []goldmark.Extender
	// Highlighter renders fenced code blocks. Nil leaves goldmark's default.
	Highlighter *Highlighter
	// HardWraps turns soft line breaks into <br>.
	HardWraps bool
}

// NewEngine builds a goldmark.Markdown. The engine holds no per-document
// state and can be shared by concurrent renders.
func NewEngine(opts Options) goldmark.Markdown {
	rendererOptions := []renderer.Option{html.WithUnsafe()}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	extenders := append([]goldmark.Extender(nil), opts.Extenders...)
	if opts.Highlighter != nil {
		extenders = append(extenders, opts.Highlighter)
	}

	return goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
		goldmark.WithExtensions(extenders...),
	)
}

// Parse parses a markdown body (front matter already removed) into an AST.
func Parse(md goldmark.Markdown, body []byte) gmast.Node {
	return md.Parser().Parse(text.NewReader(body))
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// DefaultExtensions is used when the configuration names none.
var DefaultExtensions = []string{"gfm", "footnote", "typographer"}

// Extensions maps extension names to goldmark extenders, dropping duplicates.
// Unknown names are an error.
func Extensions(names []string) ([]goldmark.Extender, error) {
	extenders := make([]goldmark.Extender, 0, len(names))
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, fmt.Errorf("unknown markdown extension %q (known: %s)", name, strings.Join(ExtensionNames(), ", "))
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders, nil
}

// ExtensionNames lists the recognized extension names.
func ExtensionNames() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NodeText concatenates the text segments below n. Raw markup strings are
// skipped.
func NodeText(n gmast.Node, source []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(child gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch c := child.(type) {
		case *gmast.Text:
			sb.Write(c.Segment.Value(source))
			if c.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			if !c.IsCode() {
				sb.Write(c.Value)
			}
		}
		return gmast.WalkContinue, nil
	})
	return sb.String()
}
