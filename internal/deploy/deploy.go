// Package deploy writes the hosting descriptors a deployment target expects
// next to the built site. It never touches rendered content.
package deploy

import (
	"context"
	"encoding/json"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

// Site describes the built output an adapter packages.
type Site struct {
	// OutputDir is the directory holding the built site on Fs.
	OutputDir string
	Mode      config.OutputMode
	BaseURL   string
	CNAME     string
	// Pages are the permalinks written by the build, sorted.
	Pages []string
	// NotFound is the 404 page file relative to OutputDir, or "".
	NotFound string
}

// Adapter packages a built site for one hosting target.
type Adapter interface {
	Name() config.DeploymentAdapter
	// Package writes the target's descriptors below site.OutputDir and returns
	// their paths relative to it.
	Package(ctx context.Context, fs afero.Fs, site Site) ([]string, error)
}

var adapters = map[config.DeploymentAdapter]Adapter{
	config.AdapterNone:        noneAdapter{},
	config.AdapterGitHubPages: githubPagesAdapter{},
	config.AdapterNetlify:     netlifyAdapter{},
	config.AdapterVercel:      vercelAdapter{},
	config.AdapterNode:        nodeAdapter{},
}

// For returns the adapter registered under name.
func For(name config.DeploymentAdapter) (Adapter, error) {
	a, ok := adapters[name]
	if !ok {
		return nil, errors.ConfigError("unknown deployment adapter").
			WithContext("adapter", string(name)).
			UserAction().
			Build()
	}
	return a, nil
}

// Package runs the adapter selected by name and logs what it wrote.
func Package(ctx context.Context, fs afero.Fs, name config.DeploymentAdapter, site Site) ([]string, error) {
	a, err := For(name)
	if err != nil {
		return nil, err
	}
	if site.Mode == config.OutputModeServer && !name.SupportsServer() {
		return nil, errors.DeployError("adapter cannot host server output mode").
			WithContext("adapter", string(name)).
			UserAction().
			Build()
	}

	written, err := a.Package(ctx, fs, site)
	if err != nil {
		return written, errors.WrapError(err, errors.CategoryDeploy, "deployment packaging failed").
			WithContext("adapter", string(name)).
			Build()
	}
	for _, rel := range written {
		slog.Debug("Wrote deployment descriptor", logfields.Adapter(string(name)), logfields.Output(rel))
	}
	return written, nil
}

func writeFile(fs afero.Fs, site Site, rel string, data []byte) error {
	target := filepath.Join(site.OutputDir, filepath.FromSlash(rel))
	if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	// #nosec G306 -- published files are world-readable
	return afero.WriteFile(fs, target, data, 0o644)
}

func writeJSON(fs afero.Fs, site Site, rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(fs, site, rel, append(data, '\n'))
}

func notFoundFile(site Site) string {
	return strings.TrimPrefix(path.Clean("/"+site.NotFound), "/")
}

type noneAdapter struct{}

func (noneAdapter) Name() config.DeploymentAdapter { return config.AdapterNone }

func (noneAdapter) Package(context.Context, afero.Fs, Site) ([]string, error) { return nil, nil }

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
