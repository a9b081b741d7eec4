package markdown

import (
	"bytes"
	"testing"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, h *Highlighter, src string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewEngine(Options{Highlighter: h}).Convert([]byte(src), &buf))
	return buf.String()
}

func TestNewHighlighter_UnknownThemeIsError(t *testing.T) {
	_, err := NewHighlighter("no-such-theme", []string{"go"}, false)
	require.Error(t, err)
}

func TestHighlighter_RecognizedLanguageGetsHighlightMarkup(t *testing.T) {
	h, err := NewHighlighter("monokai", []string{"python"}, false)
	require.NoError(t, err)

	out := render(t, h, "```python\nprint('hi')\n```\n")
	require.Contains(t, out, `<div class="highlight" data-lang="python" data-theme="monokai">`)
	require.Contains(t, out, "style=")
	require.Contains(t, out, "print")
}

func TestHighlighter_UnrecognizedLanguageFallsBackToPlainPre(t *testing.T) {
	h, err := NewHighlighter("monokai", []string{"python"}, false)
	require.NoError(t, err)

	for _, src := range []string{
		"```rust\nfn main() {}\n```\n",
		"```klingon\nqapla'\n```\n",
		"```\nno tag <b>here</b>\n```\n",
	} {
		out := render(t, h, src)
		require.NotContains(t, out, `class="highlight"`, src)
		require.NotContains(t, out, "style=", src)
		require.Contains(t, out, "<pre><code>", src)
	}

	out := render(t, h, "```\n<b>x</b>\n```\n")
	require.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
}

func TestHighlighter_FallbackIsIdempotent(t *testing.T) {
	h, err := NewHighlighter("monokai", nil, false)
	require.NoError(t, err)

	src := "```go\npackage main\n```\n"
	require.Equal(t, render(t, h, src), render(t, h, src))
}

func TestHighlighter_MatchesConfiguredTagsOnly(t *testing.T) {
	h, err := NewHighlighter("monokai", []string{"Python", "shell"}, false)
	require.NoError(t, err)

	require.True(t, h.Recognizes("PYTHON"))
	require.True(t, h.Recognizes("shell"))
	for _, alias := range []string{"py", "bash", "zsh", "sh", "rust", ""} {
		require.False(t, h.Recognizes(alias), alias)
	}

	out := render(t, h, "```py\nx = 1\n```\n\n```bash\necho hi\n```\n")
	require.NotContains(t, out, `class="highlight"`)
	require.Contains(t, out, "<pre><code>x = 1\n</code></pre>")
}

func TestHighlighter_RecognizedTagWithoutLexerStillGetsMarkup(t *testing.T) {
	h, err := NewHighlighter("monokai", []string{"folio-template"}, false)
	require.NoError(t, err)

	lexer, ok := h.Lexer("folio-template")
	require.True(t, ok)
	require.Equal(t, lexers.Fallback, lexer)

	out := render(t, h, "```folio-template\n{{ .Title }}\n```\n")
	require.Contains(t, out, `data-lang="folio-template"`)
}

func TestHighlighter_InfoStringUsesFirstWord(t *testing.T) {
	h, err := NewHighlighter("monokai", []string{"go"}, false)
	require.NoError(t, err)

	out := render(t, h, "```go title=\"main.go\"\npackage main\n```\n")
	require.Contains(t, out, `data-lang="go"`)
}

func TestHasTheme(t *testing.T) {
	require.True(t, HasTheme("monokai"))
	require.False(t, HasTheme("nope"))
	require.Contains(t, ThemeNames(), "github")
}
