package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
)

// headerRule is one path block of a Netlify _headers file.
type headerRule struct {
	Path    string
	Headers [][2]string
}

var netlifyRules = []headerRule{
	{Path: "/*", Headers: [][2]string{
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
	}},
	{Path: "/*.html", Headers: [][2]string{{"Cache-Control", "public, max-age=0, must-revalidate"}}},
	{Path: "/*.css", Headers: [][2]string{{"Cache-Control", "public, max-age=86400"}}},
	{Path: "/*.js", Headers: [][2]string{{"Cache-Control", "public, max-age=86400"}}},
	{Path: "/*.svg", Headers: [][2]string{{"Cache-Control", "public, max-age=604800"}}},
	{Path: "/build-report.json", Headers: [][2]string{{"Cache-Control", "no-store"}}},
}

type netlifyAdapter struct{}

func (netlifyAdapter) Name() config.DeploymentAdapter { return config.AdapterNetlify }

func (netlifyAdapter) Package(ctx context.Context, fs afero.Fs, site Site) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeFile(fs, site, "_headers", []byte(renderHeaders(netlifyRules))); err != nil {
		return nil, err
	}
	written := []string{"_headers"}

	if nf := notFoundFile(site); nf != "" {
		redirects := fmt.Sprintf("/*  /%s  404\n", nf)
		if err := writeFile(fs, site, "_redirects", []byte(redirects)); err != nil {
			return written, err
		}
		written = append(written, "_redirects")
	}
	return written, nil
}

func renderHeaders(rules []headerRule) string {
	var sb strings.Builder
	for _, r := range rules {
		sb.WriteString(r.Path)
		sb.WriteByte('\n')
		for _, h := range r.Headers {
			fmt.Fprintf(&sb, "  %s: %s\n", h[0], h[1])
		}
	}
	return sb.String()
}
