package docmodel

import (
	"testing"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/markdown"
	"github.com/stretchr/testify/require"
)

func TestDocument_LinkRefs_MapsRepeatedDestinationsToSuccessiveLines(t *testing.T) {
	content := "---\ntitle: x\n---\n" +
		"See [one](../projects/folio.md).\n" +
		"\n" +
		"Again [two](../projects/folio.md).\n"

	doc, err := Parse("posts/a.md", []byte(content))
	require.NoError(t, err)

	refs, err := doc.LinkRefs()
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, markdown.LinkKindInline, refs[0].Link.Kind)
	require.Equal(t, 1, refs[0].BodyLine)
	require.Equal(t, 4, refs[0].FileLine)
	require.Equal(t, 3, refs[1].BodyLine)
	require.Equal(t, 6, refs[1].FileLine)
}

func TestContentLink(t *testing.T) {
	cases := []struct {
		dest   string
		target string
		suffix string
		ok     bool
	}{
		{"a.md", "posts/a.md", "", true},
		{"../projects/c.markdown?x=1#top", "projects/c.markdown", "?x=1#top", true},
		{"/about.md", "about.md", "", true},
		{"my%20post.md", "posts/my post.md", "", true},
		{"#anchor", "", "", false},
		{"https://example.com/a.md", "", "", false},
		{"//cdn.example.com/a.md", "", "", false},
		{"image.png", "", "", false},
		{"mailto:me@example.com", "", "", false},
	}
	for _, tc := range cases {
		target, suffix, ok := ContentLink("posts/tokens.md", tc.dest)
		require.Equal(t, tc.ok, ok, tc.dest)
		require.Equal(t, tc.target, target, tc.dest)
		require.Equal(t, tc.suffix, suffix, tc.dest)
	}
}

func TestDocument_UnknownContentLinks(t *testing.T) {
	content := "---\ntitle: x\n---\n" +
		"See [folio](../projects/folio.md#usage).\n" +
		"\n" +
		"Gone: [old](old.md), ![img](pic.md) and [site](https://example.com/x.md).\n"
	doc, err := Parse("posts/a.md", []byte(content))
	require.NoError(t, err)

	known := map[string]bool{"projects/folio.md": true}
	warnings, err := doc.UnknownContentLinks(func(p string) bool { return known[p] })
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.ErrorIs(t, warnings[0], ErrUnknownLinkTarget)

	ce, ok := ferrors.AsClassified(warnings[0])
	require.True(t, ok)
	require.True(t, ce.IsWarning())
	path, line := ce.Location()
	require.Equal(t, "posts/a.md", path)
	require.Equal(t, 6, line)
	detail, _ := ce.Context().GetString("detail")
	require.Equal(t, "old.md", detail)
}
