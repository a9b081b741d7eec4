package builtin

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/plugin"
)

func TestIcons_InlinesEmbeddedIcon(t *testing.T) {
	set := buildSet(t, plugin.Settings{}, NameIcons)
	dc := &plugin.DocumentContext{Path: "about.md"}

	out := renderWith(t, set, dc, "Write me ![Email](icon:mail) today.\n")

	require.Contains(t, out, `<span class="icon" data-icon="mail" role="img" aria-label="Email"><svg`)
	require.NotContains(t, out, "<img")
	require.Empty(t, dc.Warnings())
}

func TestIcons_ConfiguredDirectoryShadowsEmbedded(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "assets/icons/mail.svg",
		[]byte("<?xml version=\"1.0\"?>\n<svg id=\"custom\"></svg>\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "assets/icons/python.svg", []byte("<svg id=\"py\"></svg>"), 0o644))

	set := buildSet(t, plugin.Settings{Fs: fs, IconsDir: "assets/icons"}, NameIcons)
	out := renderWith(t, set, &plugin.DocumentContext{}, "![](icon:mail) ![](icon:python)\n")

	require.Contains(t, out, `<svg id="custom"></svg>`)
	require.Contains(t, out, `<svg id="py"></svg>`)
	require.Contains(t, out, `aria-hidden="true"`)
	require.NotContains(t, out, "<?xml")
}

func TestIcons_UnknownIconWarnsAndRendersEmptySpan(t *testing.T) {
	set := buildSet(t, plugin.Settings{}, NameIcons)
	dc := &plugin.DocumentContext{}

	out := renderWith(t, set, dc, "![x](icon:../../etc/passwd) ![y](icon:nope)\n")

	require.Contains(t, out, `<span class="icon icon-missing" data-icon="nope" role="img" aria-label="y"></span>`)
	require.Len(t, dc.Warnings(), 2)
}

func TestIcons_MissingDirectoryIsError(t *testing.T) {
	_, err := NewRegistry().Build([]string{NameIcons}, plugin.Settings{Fs: afero.NewMemMapFs(), IconsDir: "nope"})
	require.Error(t, err)
}

func TestEmbeddedIconNames(t *testing.T) {
	require.Contains(t, EmbeddedIconNames(), "mail")
	require.Contains(t, EmbeddedIconNames(), "rss")
}
