package site

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/docmodel"
)

func TestPermalink(t *testing.T) {
	tests := []struct {
		path string
		slug string
		want string
	}{
		{"works/founder.md", "", "/works/founder/"},
		{"posts/Hello World.md", "", "/posts/hello-world/"},
		{"posts/first.md", "hello-world", "/posts/hello-world/"},
		{"posts/first.md", "/blog/first", "/blog/first/"},
		{"index.md", "", "/"},
		{"projects/_index.md", "", "/projects/"},
		{"about.markdown", "", "/about/"},
		{"notes/deep/idea.md", "", "/notes/deep/idea/"},
		{"posts/c#-tips.md", "", "/posts/c%23-tips/"},
		{"posts/why?.md", "", "/posts/why%3F/"},
		{"posts/a.md", "../../etc", "/etc/"},
	}
	for _, tt := range tests {
		if got := Permalink(tt.path, tt.slug); got != tt.want {
			t.Errorf("Permalink(%q, %q) = %q, want %q", tt.path, tt.slug, got, tt.want)
		}
	}
}

func TestOutputFile(t *testing.T) {
	if got := OutputFile("/"); got != "index.html" {
		t.Errorf("OutputFile(/) = %q", got)
	}
	if got := OutputFile("/posts/hello/"); got != "posts/hello/index.html" {
		t.Errorf("OutputFile(/posts/hello/) = %q", got)
	}
	if got := OutputFile("/tags/c%23/"); got != "tags/c#/index.html" {
		t.Errorf("OutputFile(/tags/c%%23/) = %q", got)
	}
}

func TestTagPermalink(t *testing.T) {
	if got := TagPermalink("ci/cd"); got != "/tags/ci-cd/" {
		t.Errorf("TagPermalink(ci/cd) = %q", got)
	}
	if got := TagPermalink("machine learning"); got != "/tags/machine-learning/" {
		t.Errorf("TagPermalink(machine learning) = %q", got)
	}
	if got := TagPermalink("c#"); got != "/tags/c%23/" {
		t.Errorf("TagPermalink(c#) = %q", got)
	}
	if got := TagPermalink(".."); got != "/tags/--/" {
		t.Errorf("TagPermalink(..) = %q", got)
	}
	if got := TagPermalink("."); got != "/tags/-/" {
		t.Errorf("TagPermalink(.) = %q", got)
	}
	if got := TagPermalink(".net"); got != "/tags/.net/" {
		t.Errorf("TagPermalink(.net) = %q", got)
	}
}

func TestPlanTagPages_SkipsCollidingPages(t *testing.T) {
	entries := []docmodel.Entry{
		resolve(t, "projects/a.md", "---\ntitle: A\ntags: [\"a b\", go]\n---\n"),
		resolve(t, "projects/b.md", "---\ntitle: B\ntags: [a-b, rust]\n---\n"),
	}
	reserved := map[string]struct{}{"/tags/rust/": {}}

	pages, collisions := planTagPages(entries, reserved)
	require.Len(t, collisions, 2)
	for _, err := range collisions {
		require.ErrorIs(t, err, ErrTagPageCollision)
	}

	p, ok := pages.Permalink("a b")
	require.True(t, ok)
	require.Equal(t, "/tags/a-b/", p)
	_, ok = pages.Permalink("a-b")
	require.False(t, ok)
	_, ok = pages.Permalink("rust")
	require.False(t, ok)

	link := pages.Link("Rust")
	require.Empty(t, link.Permalink)
	require.Equal(t, 1, link.Count)
	require.Equal(t, 4, pages.Index.Len())
}

func resolve(t *testing.T, path, content string) docmodel.Entry {
	t.Helper()
	doc, err := docmodel.Parse(path, []byte(content))
	require.NoError(t, err)
	e, err := docmodel.Resolve(doc)
	require.NoError(t, err)
	return e
}
