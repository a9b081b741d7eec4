package taxonomy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/docmodel"
)

func entry(t *testing.T, path string, tags ...string) docmodel.Entry {
	t.Helper()
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	content := fmt.Sprintf("---\ntitle: %s\ndate: 2024\ntags: [%s]\n---\nbody\n", path, strings.Join(quoted, ", "))
	doc, err := docmodel.Parse(path, []byte(content))
	require.NoError(t, err)
	e, err := docmodel.Resolve(doc)
	require.NoError(t, err)
	return e
}

func TestBuild_CountsTags(t *testing.T) {
	idx := Build([]docmodel.Entry{
		entry(t, "posts/a.md", "react"),
		entry(t, "posts/b.md", "react", "git"),
		entry(t, "posts/c.md", "python"),
	})

	require.Equal(t, map[string]int{"react": 2, "git": 1, "python": 1}, counts(idx))
	require.Equal(t, []string{"react", "git", "python"}, keys(idx))

	react, ok := idx.Lookup("React")
	require.True(t, ok)
	require.Len(t, react.Documents, 2)
	require.Equal(t, "posts/a.md", react.Documents[0].Document().Path())
}

func TestBuild_CaseInsensitiveWithFirstLabel(t *testing.T) {
	idx := Build([]docmodel.Entry{
		entry(t, "works/a.md", "Python", "Golang"),
		entry(t, "works/b.md", " python "),
	})

	python, ok := idx.Lookup("PYTHON")
	require.True(t, ok)
	require.Equal(t, "python", python.Key)
	require.Equal(t, "Python", python.Label)
	require.Equal(t, 2, python.Count)
	require.Equal(t, 2, idx.Len())
}

func TestBuild_DocumentCountsOncePerKey(t *testing.T) {
	idx := Build([]docmodel.Entry{
		entry(t, "posts/a.md", "go", "Go", "GO", ""),
	})
	require.Equal(t, map[string]int{"go": 1}, counts(idx))
}

func TestBuild_Empty(t *testing.T) {
	idx := Build(nil)
	require.Zero(t, idx.Len())
	_, ok := idx.Lookup("x")
	require.False(t, ok)
}

func keys(idx *Index) []string {
	out := make([]string, len(idx.Terms))
	for i, term := range idx.Terms {
		out[i] = term.Key
	}
	return out
}

func counts(idx *Index) map[string]int {
	out := make(map[string]int, len(idx.Terms))
	for _, term := range idx.Terms {
		out[term.Key] = term.Count
	}
	return out
}
