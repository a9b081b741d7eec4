package deploy

import (
	"context"
	"net/url"
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
)

// githubPagesAdapter disables Jekyll processing and publishes the custom
// domain, taken from deployment.cname or else the base URL host.
type githubPagesAdapter struct{}

func (githubPagesAdapter) Name() config.DeploymentAdapter { return config.AdapterGitHubPages }

func (githubPagesAdapter) Package(ctx context.Context, fs afero.Fs, site Site) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	written := []string{".nojekyll"}
	if err := writeFile(fs, site, ".nojekyll", nil); err != nil {
		return nil, err
	}

	if domain := customDomain(site); domain != "" {
		if err := writeFile(fs, site, "CNAME", []byte(domain+"\n")); err != nil {
			return written, err
		}
		written = append(written, "CNAME")
	}
	return written, nil
}

func customDomain(site Site) string {
	if site.CNAME != "" {
		return strings.ToLower(site.CNAME)
	}
	u, err := url.Parse(site.BaseURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || host == "localhost" || strings.HasSuffix(host, ".github.io") {
		return ""
	}
	return host
}
