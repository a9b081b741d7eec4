package render

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/docmodel"
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/plugin"
	"git.home.luguber.info/inful/folio/internal/plugin/builtin"
)

type permalinks map[string]string

func (p permalinks) Permalink(contentPath string) (string, bool) {
	v, ok := p[contentPath]
	return v, ok
}

func newTestConfiguration(t *testing.T, languages ...string) *Configuration {
	t.Helper()
	set, err := builtin.NewRegistry().Build(builtin.DefaultNames, plugin.Settings{Fs: afero.NewMemMapFs()})
	require.NoError(t, err)
	c, err := NewConfiguration(Options{
		HighlightTheme:      "monokai",
		RecognizedLanguages: languages,
		Plugins:             set,
	})
	require.NoError(t, err)
	return c
}

func parse(t *testing.T, path, content string) *docmodel.Document {
	t.Helper()
	doc, err := docmodel.Parse(path, []byte(content))
	require.NoError(t, err)
	return doc
}

func TestRender_PlainProseHasNoHighlightMarkup(t *testing.T) {
	c := newTestConfiguration(t, "python")
	doc := parse(t, "works/founder.md", "---\ntitle: Founder\ndate: 2020 - 2022\ntags: [Python, Golang]\n---\n\nBuilt a company from scratch.\n")

	out, err := c.Render(doc, Environment{Permalink: "/works/founder/"})
	require.NoError(t, err)
	require.Contains(t, string(out.HTML), "Built a company from scratch.")
	require.NotContains(t, string(out.HTML), `class="highlight"`)
	require.Empty(t, out.CodeBlocks)
	require.False(t, out.Highlighted())
	require.Empty(t, out.Warnings)
	require.Equal(t, "Built a company from scratch.", out.Summary)
}

func TestRender_RecognizedLanguageIsHighlightedWithTheme(t *testing.T) {
	c := newTestConfiguration(t, "python")
	doc := parse(t, "posts/hello.md", "---\ntitle: Hello\ndate: 2024-01-15\n---\n\nIntro.\n\n```python\nprint('hi')\n```\n")

	out, err := c.Render(doc, Environment{})
	require.NoError(t, err)
	html := string(out.HTML)
	require.Contains(t, html, `<div class="highlight" data-lang="python" data-theme="monokai">`)
	require.Contains(t, html, "print")
	require.Equal(t, []CodeBlock{{Language: "python", Line: 8, Highlighted: true}}, out.CodeBlocks)
	require.Empty(t, out.Warnings)
}

func TestRender_AliasOfRecognizedLanguageIsNotHighlighted(t *testing.T) {
	c := newTestConfiguration(t, "python")
	doc := parse(t, "posts/alias.md", "---\ntitle: Alias\n---\n\n```py\nx = 1\n```\n")

	out, err := c.Render(doc, Environment{})
	require.NoError(t, err)
	require.NotContains(t, string(out.HTML), `class="highlight"`)
	require.Contains(t, string(out.HTML), "<pre><code>x = 1\n</code></pre>")
	require.Len(t, out.Warnings, 1)
	lang, _ := out.Warnings[0].Context().GetString("language")
	require.Equal(t, "py", lang)
}

func TestRender_UnrecognizedLanguageFallsBackWithWarning(t *testing.T) {
	c := newTestConfiguration(t, "python")
	doc := parse(t, "posts/go.md", "---\ntitle: Go\n---\n\n```go\nfunc main() {}\n```\n\n```\nuntagged\n```\n")

	out, err := c.Render(doc, Environment{})
	require.NoError(t, err)
	html := string(out.HTML)
	require.NotContains(t, html, `class="highlight"`)
	require.Contains(t, html, "<pre><code>func main() {}\n</code></pre>")
	require.Contains(t, html, "<pre><code>untagged\n</code></pre>")

	require.Len(t, out.Warnings, 1)
	w := out.Warnings[0]
	require.True(t, stderrors.Is(w, ErrUnrecognizedLanguageTag))
	require.True(t, w.IsSeverity(errors.SeverityWarning))
	lang, _ := w.Context().GetString("language")
	require.Equal(t, "go", lang)
	line, _ := w.Context().GetInt("line")
	require.Equal(t, 5, line)
}

func TestRender_DoesNotMutateDocument(t *testing.T) {
	c := newTestConfiguration(t, "python")
	content := "---\ntitle: Links\n---\n\nSee [the other post](other.md) and ![rss](icon:rss).\n"
	doc := parse(t, "posts/links.md", content)
	body, fields := doc.Body(), doc.FrontMatter()

	out, err := c.Render(doc, Environment{
		Permalink: "/posts/links/",
		Links:     permalinks{"posts/other.md": "/posts/other/"},
	})
	require.NoError(t, err)
	require.Contains(t, string(out.HTML), `href="/posts/other/"`)
	require.Contains(t, string(out.HTML), `data-icon="rss"`)
	require.Equal(t, body, doc.Body())
	require.Equal(t, fields, doc.FrontMatter())
}

func TestRender_PluginWarningsAreCollected(t *testing.T) {
	c := newTestConfiguration(t)
	doc := parse(t, "posts/broken.md", "---\ntitle: Broken\n---\n\nA [dead link](missing.md).\n")

	out, err := c.Render(doc, Environment{Links: permalinks{}})
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	require.True(t, stderrors.Is(out.Warnings[0], ErrPluginWarning))
	name, _ := out.Warnings[0].Context().GetString("plugin")
	require.Equal(t, builtin.NameLinkRewrite, name)
	line, _ := out.Warnings[0].Context().GetInt("line")
	require.Equal(t, 5, line)
}

func TestRender_HeadingsAndSummary(t *testing.T) {
	c := newTestConfiguration(t)
	doc := parse(t, "about.md", "---\ntitle: About\ndescription: Who I am.\n---\n\n# Hello World\n\nText.\n\n## Experience\n")

	out, err := c.Render(doc, Environment{})
	require.NoError(t, err)
	require.Equal(t, []Heading{
		{Level: 1, ID: "hello-world", Text: "Hello World"},
		{Level: 2, ID: "experience", Text: "Experience"},
	}, out.Headings)
	require.Equal(t, "Who I am.", out.Summary)
}

func TestNewConfiguration_UnknownThemeIsConfigError(t *testing.T) {
	_, err := NewConfiguration(Options{HighlightTheme: "not-a-theme"})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestNewConfiguration_NilPluginsRendersCommonMark(t *testing.T) {
	c, err := NewConfiguration(Options{HighlightTheme: "github", RecognizedLanguages: []string{"go"}})
	require.NoError(t, err)
	doc := parse(t, "page.md", "---\ntitle: Page\n---\n\n```go\npackage main\n```\n")

	out, err := c.Render(doc, Environment{})
	require.NoError(t, err)
	require.Contains(t, string(out.HTML), `data-theme="github"`)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Site.BaseURL = "https://me.example.com"
	cfg.Markdown.RecognizedLanguages = []string{"python"}

	c, err := FromConfig(cfg, afero.NewMemMapFs())
	require.NoError(t, err)
	require.Equal(t, builtin.DefaultNames, c.Plugins.Names())
	require.True(t, c.Highlighter().Recognizes("python"))
	require.Equal(t, "me.example.com", PluginSettings(cfg, afero.NewMemMapFs()).SiteHost)

	cfg.Plugins.Enabled = []string{"nope"}
	_, err = FromConfig(cfg, afero.NewMemMapFs())
	require.True(t, errors.HasCategory(err, errors.CategoryPlugin))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("word ", 60)
	got := truncate(long, 50)
	require.True(t, strings.HasSuffix(got, "…"))
	require.LessOrEqual(t, len([]rune(got)), 51)
	require.Equal(t, "short", truncate("short", 50))
}
