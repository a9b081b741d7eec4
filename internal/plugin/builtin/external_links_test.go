package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/plugin"
)

func TestExternalLinks_MarksOtherHosts(t *testing.T) {
	set := buildSet(t, plugin.Settings{SiteHost: "me.example.com"}, NameExternalLinks)

	out := renderWith(t, set, &plugin.DocumentContext{},
		"[gh](https://github.com/me) [home](https://me.example.com/about/) [rel](/posts/) [mail](mailto:a@b.c)\n")

	require.Contains(t, out, `<a href="https://github.com/me" rel="noopener noreferrer" target="_blank">gh</a>`)
	require.Contains(t, out, `<a href="https://me.example.com/about/">home</a>`)
	require.Contains(t, out, `<a href="/posts/">rel</a>`)
	require.Contains(t, out, `<a href="mailto:a@b.c">mail</a>`)
}

func TestExternalLinks_NoLinksLeavesFragmentUntouched(t *testing.T) {
	set := buildSet(t, plugin.Settings{}, NameExternalLinks)
	in := []byte("<p>plain <hr></p>")

	out, err := set.TransformHTML(&plugin.DocumentContext{}, in)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestMergeTokens(t *testing.T) {
	require.Equal(t, "me noopener noreferrer", mergeTokens("me", externalRel))
	require.Equal(t, "NOOPENER noreferrer", mergeTokens("NOOPENER noreferrer", externalRel))
}
