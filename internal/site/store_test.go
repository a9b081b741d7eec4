package site

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

func TestStore_Scan(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, p := range []string{
		"/c/works/b.md",
		"/c/works/a.markdown",
		"/c/posts/img/shot.png",
		"/c/.git/config",
		"/c/posts/.draft.md",
		"/c/about.md",
	} {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}

	inv, err := NewStore(fs, "/c").Scan()
	require.NoError(t, err)
	require.Equal(t, []string{"about.md", "works/a.markdown", "works/b.md"}, inv.Documents)
	require.Equal(t, []string{"posts/img/shot.png"}, inv.Assets)
}

func TestStore_ScanMissingRoot(t *testing.T) {
	_, err := NewStore(afero.NewMemMapFs(), "/nope").Scan()
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestStore_Read(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c/posts/a.md", []byte("hello"), 0o644))
	data, err := NewStore(fs, "/c").Read("posts/a.md")
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}
