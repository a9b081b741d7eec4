package deploy

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

func testSite() Site {
	return Site{
		OutputDir: "/public",
		Mode:      config.OutputModeStatic,
		BaseURL:   "https://portfolio.example.com/",
		Pages:     []string{"/posts/", "/", "/about/"},
		NotFound:  "404.html",
	}
}

func read(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestPackage_None(t *testing.T) {
	fs := afero.NewMemMapFs()
	written, err := Package(context.Background(), fs, config.AdapterNone, testSite())
	require.NoError(t, err)
	require.Empty(t, written)
}

func TestPackage_GitHubPages(t *testing.T) {
	fs := afero.NewMemMapFs()
	written, err := Package(context.Background(), fs, config.AdapterGitHubPages, testSite())
	require.NoError(t, err)
	require.Equal(t, []string{".nojekyll", "CNAME"}, written)
	require.Equal(t, "portfolio.example.com\n", read(t, fs, "/public/CNAME"))

	site := testSite()
	site.CNAME = "Me.Example.org"
	_, err = Package(context.Background(), fs, config.AdapterGitHubPages, site)
	require.NoError(t, err)
	require.Equal(t, "me.example.org\n", read(t, fs, "/public/CNAME"))
}

func TestPackage_GitHubPagesSkipsCNAMEForGithubIO(t *testing.T) {
	fs := afero.NewMemMapFs()
	site := testSite()
	site.BaseURL = "https://someone.github.io/portfolio/"
	written, err := Package(context.Background(), fs, config.AdapterGitHubPages, site)
	require.NoError(t, err)
	require.Equal(t, []string{".nojekyll"}, written)
}

func TestPackage_Netlify(t *testing.T) {
	fs := afero.NewMemMapFs()
	written, err := Package(context.Background(), fs, config.AdapterNetlify, testSite())
	require.NoError(t, err)
	require.Equal(t, []string{"_headers", "_redirects"}, written)

	headers := read(t, fs, "/public/_headers")
	require.Contains(t, headers, "/*.css\n  Cache-Control: public, max-age=86400\n")
	require.Contains(t, headers, "X-Content-Type-Options: nosniff")
	require.Equal(t, "/*  /404.html  404\n", read(t, fs, "/public/_redirects"))
}

func TestPackage_Vercel(t *testing.T) {
	fs := afero.NewMemMapFs()
	written, err := Package(context.Background(), fs, config.AdapterVercel, testSite())
	require.NoError(t, err)
	require.Equal(t, []string{".vercel/output/config.json"}, written)

	var cfg vercelConfig
	require.NoError(t, json.Unmarshal([]byte(read(t, fs, "/public/.vercel/output/config.json")), &cfg))
	require.Equal(t, 3, cfg.Version)
	require.Equal(t, "filesystem", cfg.Routes[1].Handle)
	require.Equal(t, 404, cfg.Routes[2].Status)
}

func TestPackage_NodeManifestRoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	site := testSite()
	site.Mode = config.OutputModeServer
	written, err := Package(context.Background(), fs, config.AdapterNode, site)
	require.NoError(t, err)
	require.Equal(t, []string{ServerManifestFile}, written)

	m, err := ReadServerManifest(fs, "/public")
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Equal(t, config.OutputModeServer, m.Mode)
	require.Equal(t, []string{"/", "/about/", "/posts/"}, m.Pages)
	require.Equal(t, "404.html", m.NotFound)
}

func TestReadServerManifest_Missing(t *testing.T) {
	m, err := ReadServerManifest(afero.NewMemMapFs(), "/public")
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestPackage_ServerModeRequiresCapableAdapter(t *testing.T) {
	site := testSite()
	site.Mode = config.OutputModeServer
	_, err := Package(context.Background(), afero.NewMemMapFs(), config.AdapterNetlify, site)
	require.True(t, errors.HasCategory(err, errors.CategoryDeploy))
}

func TestFor_Unknown(t *testing.T) {
	_, err := For("heroku")
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestPackage_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Package(ctx, afero.NewMemMapFs(), config.AdapterNetlify, testSite())
	require.ErrorIs(t, err, context.Canceled)
}
