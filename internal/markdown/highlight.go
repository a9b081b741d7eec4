package markdown

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Highlighter renders fenced code blocks whose language is recognized with
// chroma, using inline styles from a single theme. All other fenced blocks
// render as plain <pre><code> with escaped text.
type Highlighter struct {
	theme      string
	style      *chroma.Style
	formatter  *chromahtml.Formatter
	recognized map[string]struct{}
}

// NewHighlighter resolves theme and the recognized language tags. Tags are
// compared after lowercasing; chroma aliases of a configured tag are not
// recognized unless configured themselves.
func NewHighlighter(theme string, languages []string, lineNumbers bool) (*Highlighter, error) {
	style, ok := styles.Registry[theme]
	if !ok {
		return nil, fmt.Errorf("unknown highlight theme %q", theme)
	}

	recognized := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		if tag := normalizeTag(lang); tag != "" {
			recognized[tag] = struct{}{}
		}
	}

	return &Highlighter{
		theme: theme,
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(false),
			chromahtml.WithLineNumbers(lineNumbers),
			chromahtml.TabWidth(4),
		),
		recognized: recognized,
	}, nil
}

// Theme returns the theme identifier.
func (h *Highlighter) Theme() string { return h.theme }

// Lexer returns the lexer for tag when tag is recognized. A recognized tag
// chroma has no lexer for is tokenised as plain text, so it still gets
// highlight markup.
func (h *Highlighter) Lexer(tag string) (chroma.Lexer, bool) {
	if !h.Recognizes(tag) {
		return nil, false
	}
	if lexer := lexers.Get(normalizeTag(tag)); lexer != nil {
		return lexer, true
	}
	return lexers.Fallback, true
}

// Recognizes reports whether tag would be highlighted.
func (h *Highlighter) Recognizes(tag string) bool {
	tag = normalizeTag(tag)
	if tag == "" {
		return false
	}
	_, ok := h.recognized[tag]
	return ok
}

// Highlight writes code wrapped in the highlight container.
func (h *Highlighter) Highlight(w io.Writer, tag string, lexer chroma.Lexer, code string) error {
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<div class="highlight" data-lang="%s" data-theme="%s">`,
		html.EscapeString(normalizeTag(tag)), html.EscapeString(h.theme))
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return err
	}
	buf.WriteString("</div>\n")

	_, err = w.Write(buf.Bytes())
	return err
}

// Extend implements goldmark.Extender.
func (h *Highlighter) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&codeBlockRenderer{highlighter: h}, 100),
	))
}

// BlockLanguage returns the lowercased first word of a fenced block's info
// string, or "" when the block has none.
func BlockLanguage(n *gmast.FencedCodeBlock, source []byte) string {
	if n.Info == nil {
		return ""
	}
	return normalizeTag(string(n.Language(source)))
}

// BlockCode returns the literal content of a code block.
func BlockCode(n gmast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

type codeBlockRenderer struct {
	highlighter *Highlighter
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gmast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*gmast.FencedCodeBlock)
	tag := BlockLanguage(n, source)
	code := BlockCode(n, source)

	if lexer, ok := r.highlighter.Lexer(tag); ok {
		if err := r.highlighter.Highlight(w, tag, lexer, code); err == nil {
			return gmast.WalkSkipChildren, nil
		}
	}

	_, _ = w.WriteString("<pre><code>")
	_, _ = w.Write(util.EscapeHTML([]byte(code)))
	_, _ = w.WriteString("</code></pre>\n")
	return gmast.WalkSkipChildren, nil
}

func normalizeTag(tag string) string {
	fields := strings.Fields(strings.ToLower(tag))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "{}.")
}

// ThemeNames lists the available highlight themes.
func ThemeNames() []string {
	return styles.Names()
}

// HasTheme reports whether name is a known highlight theme.
func HasTheme(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}
