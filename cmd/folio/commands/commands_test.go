package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	var out, logs bytes.Buffer
	g := &Global{Out: &out, Err: &logs}
	parser, err := kong.New(cli, kong.Name("folio"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}
	err = ctx.Run(g, cli)
	return out.String(), err
}

func initSite(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	out, err := run(t, "init", dir)
	require.NoError(t, err)
	require.Contains(t, out, filepath.Join(dir, "folio.yaml"))
	require.Contains(t, out, filepath.Join(dir, "content", "posts", "hello-world.md"))
	return dir, filepath.Join(dir, "folio.yaml")
}

func TestInitThenBuild(t *testing.T) {
	dir, cfgPath := initSite(t)
	metricsFile := filepath.Join(dir, "metrics.prom")

	out, err := run(t, "-c", cfgPath, "build", "--metrics-file", metricsFile)
	require.NoError(t, err)
	require.Contains(t, out, "Build success")
	require.Contains(t, out, "failed=0")

	page, err := os.ReadFile(filepath.Join(dir, "public", "posts", "hello-world", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), `class="highlight"`)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `folio_build_outcomes_total{outcome="success"} 1`)
	require.Contains(t, string(prom), `folio_documents_total{category="posts",result="rendered"} 1`)
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir, _ := initSite(t)
	_, err := run(t, "init", dir)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = run(t, "init", "--force", dir)
	require.NoError(t, err)
}

func TestBuild_FailedDocumentExitsWithBuildCode(t *testing.T) {
	dir, cfgPath := initSite(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "posts", "broken.md"), []byte("---\ntitle: Broken\n"), 0o600))

	out, err := run(t, "-c", cfgPath, "build")
	require.Error(t, err)
	require.Contains(t, out, "Build failed")
	require.Equal(t, 11, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))

	_, statErr := os.Stat(filepath.Join(dir, "public", "about", "index.html"))
	require.NoError(t, statErr)
}

func TestBuild_OverridesOutput(t *testing.T) {
	_, cfgPath := initSite(t)
	target := filepath.Join(t.TempDir(), "site")

	_, err := run(t, "-c", cfgPath, "build", "-o", target, "--jobs", "2", "--drafts")
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(target, "index.html"))
	require.NoError(t, statErr)
}

func TestBuild_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "folio.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("markdown:\n  highlight_theme: no-such-theme\n"), 0o600))

	_, err := run(t, "-c", cfgPath, "build")
	require.Error(t, err)
	require.Equal(t, 2, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestBuild_MissingConfig(t *testing.T) {
	_, err := run(t, "-c", filepath.Join(t.TempDir(), "nope.yaml"), "build")
	require.Equal(t, 3, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestCheck(t *testing.T) {
	dir, cfgPath := initSite(t)

	out, err := run(t, "-c", cfgPath, "check")
	require.NoError(t, err)
	require.Contains(t, out, "4 documents: 4 ok, 0 drafts, 0 failed")
	require.NotContains(t, out, "link target")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "posts", "links.md"),
		[]byte("---\ntitle: Links\ndate: 2024\n---\n\nSee [old](retired.md).\n"), 0o600))
	out, err = run(t, "-c", cfgPath, "check")
	require.NoError(t, err)
	require.Contains(t, out, "posts/links.md")
	require.Contains(t, out, "link target does not match a content document: retired.md")
	require.Contains(t, out, "5 documents: 5 ok, 0 drafts, 0 failed")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "works", "nodate.md"), []byte("---\ntitle: No date\n---\n"), 0o600))
	out, err = run(t, "-c", cfgPath, "check")
	require.True(t, errors.HasCategory(err, errors.CategoryBuild))
	require.Contains(t, out, "works/nodate.md")
	require.Contains(t, out, "missing required field")

	_, statErr := os.Stat(filepath.Join(dir, "public"))
	require.True(t, os.IsNotExist(statErr))
}

func TestTags(t *testing.T) {
	_, cfgPath := initSite(t)

	out, err := run(t, "-c", cfgPath, "tags")
	require.NoError(t, err)
	require.Contains(t, out, "/tags/go/")
	require.Contains(t, out, "react")
	require.Contains(t, out, "python")

	out, err = run(t, "-c", cfgPath, "tags", "--format", "csv", "--docs")
	require.NoError(t, err)
	require.Contains(t, out, "Tag,Count,Page,Documents")
	require.Contains(t, out, "go,2,/tags/go/")
}

func TestPlugins(t *testing.T) {
	_, cfgPath := initSite(t)

	out, err := run(t, "-c", cfgPath, "plugins")
	require.NoError(t, err)
	for _, name := range []string{"markdown-extensions", "link-rewrite", "icons", "external-links", "compress"} {
		require.Contains(t, out, name)
	}
	require.Less(t, bytes.Index([]byte(out), []byte("markdown-extensions")), bytes.Index([]byte(out), []byte("compress")))
}

func TestNew_CreatesBuildableDocument(t *testing.T) {
	dir, cfgPath := initSite(t)

	out, err := run(t, "-c", cfgPath, "new", "posts/first-steps.md", "-t", "go", "-t", "notes", "--date", "2024-02-03")
	require.NoError(t, err)
	target := filepath.Join(dir, "content", "posts", "first-steps.md")
	require.Contains(t, out, "created "+target+" (posts)")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "---\ndate: \"2024-02-03\"\ntags:\n  - go\n  - notes\ntitle: First Steps\n---\n", string(data))

	_, err = run(t, "-c", cfgPath, "new", "posts/first-steps.md")
	require.True(t, errors.HasCategory(err, errors.CategoryDocument))

	_, err = run(t, "-c", cfgPath, "new", "--toml", "--draft", "projects/side_thing.md")
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "content", "projects", "side_thing.md"))
	require.NoError(t, err)
	require.Equal(t, "+++\ndraft = true\ntitle = \"Side Thing\"\n+++\n", string(data))

	out, err = run(t, "-c", cfgPath, "build")
	require.NoError(t, err)
	require.Contains(t, out, "Build success")
	_, err = os.Stat(filepath.Join(dir, "public", "posts", "first-steps", "index.html"))
	require.NoError(t, err)
}

func TestNew_RejectsPathsOutsideContent(t *testing.T) {
	_, cfgPath := initSite(t)
	for _, p := range []string{"../escape.md", "posts/notes.txt"} {
		_, err := run(t, "-c", cfgPath, "new", p)
		require.True(t, errors.HasCategory(err, errors.CategoryValidation), p)
	}
}
