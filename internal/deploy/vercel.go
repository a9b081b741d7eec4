package deploy

import (
	"context"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
)

// vercelConfig is the subset of the Build Output API v3 config.json folio
// emits.
type vercelConfig struct {
	Version       int           `json:"version"`
	Routes        []vercelRoute `json:"routes"`
	TrailingSlash bool          `json:"trailingSlash"`
}

type vercelRoute struct {
	Src     string            `json:"src,omitempty"`
	Dest    string            `json:"dest,omitempty"`
	Status  int               `json:"status,omitempty"`
	Handle  string            `json:"handle,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

type vercelAdapter struct{}

func (vercelAdapter) Name() config.DeploymentAdapter { return config.AdapterVercel }

func (vercelAdapter) Package(ctx context.Context, fs afero.Fs, site Site) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := vercelConfig{
		Version:       3,
		TrailingSlash: true,
		Routes: []vercelRoute{
			{Src: "/(.*)\\.(css|js|svg)", Headers: map[string]string{"Cache-Control": "public, max-age=86400"}},
			{Handle: "filesystem"},
		},
	}
	if nf := notFoundFile(site); nf != "" {
		cfg.Routes = append(cfg.Routes, vercelRoute{Src: "/(.*)", Dest: "/" + nf, Status: 404})
	}

	const rel = ".vercel/output/config.json"
	if err := writeJSON(fs, site, rel, cfg); err != nil {
		return nil, err
	}
	return []string{rel}, nil
}
