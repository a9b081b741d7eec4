package site

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// stylesheetFile is the default stylesheet the layouts link to. A file of the
// same path in the static directory replaces it.
const stylesheetFile = "css/site.css"

// copyAssets writes the default stylesheet, copies non-markdown content files,
// and then the static directory, which wins on conflicts.
func (d *Driver) copyAssets(ctx context.Context, store *Store, assets []string, report *Report) error {
	if err := d.writeArtifact(ctx, stylesheetFile, defaultStylesheet); err != nil {
		return err
	}

	for _, rel := range assets {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := store.Read(rel)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to read asset").
				WithContext("path", rel).
				Build()
		}
		if err := d.writeArtifact(ctx, rel, data); err != nil {
			return err
		}
		report.Assets++
	}

	staticDir := d.cfg.StaticDir()
	if ok, _ := afero.DirExists(d.fs, staticDir); !ok {
		return nil
	}
	return afero.Walk(d.fs, staticDir, func(p string, fi fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if fi.IsDir() || fi.Name() == ".gitkeep" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(staticDir, p)
		if err != nil {
			return err
		}
		data, err := afero.ReadFile(d.fs, p)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to read static file").
				WithContext("path", p).
				Build()
		}
		if err := d.writeArtifact(ctx, filepath.ToSlash(rel), data); err != nil {
			return err
		}
		report.Assets++
		return nil
	})
}
