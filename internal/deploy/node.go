package deploy

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
)

// ServerManifestFile is the manifest the node adapter writes and `folio
// serve` reads.
const ServerManifestFile = "folio-server.json"

// ServerManifest tells a server how to host the output directory.
type ServerManifest struct {
	Version  int               `json:"version"`
	Mode     config.OutputMode `json:"mode"`
	Root     string            `json:"root"`
	NotFound string            `json:"not_found,omitempty"`
	Headers  map[string]string `json:"headers"`
	Pages    []string          `json:"pages"`
}

type nodeAdapter struct{}

func (nodeAdapter) Name() config.DeploymentAdapter { return config.AdapterNode }

func (nodeAdapter) Package(ctx context.Context, fs afero.Fs, site Site) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := ServerManifest{
		Version:  1,
		Mode:     site.Mode,
		Root:     ".",
		NotFound: notFoundFile(site),
		Headers: map[string]string{
			"X-Content-Type-Options": "nosniff",
		},
		Pages: sortedCopy(site.Pages),
	}
	if err := writeJSON(fs, site, ServerManifestFile, m); err != nil {
		return nil, err
	}
	return []string{ServerManifestFile}, nil
}

// ReadServerManifest loads the manifest from outputDir. A missing manifest
// returns nil without error.
func ReadServerManifest(fs afero.Fs, outputDir string) (*ServerManifest, error) {
	data, err := afero.ReadFile(fs, filepath.Join(outputDir, ServerManifestFile))
	if err != nil {
		if exists, _ := afero.Exists(fs, filepath.Join(outputDir, ServerManifestFile)); !exists {
			return nil, nil
		}
		return nil, err
	}
	var m ServerManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
