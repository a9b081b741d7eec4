package commands

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/folio/internal/docmodel"
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/frontmatter"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Path  string   `arg:"" help:"Document path inside the content directory, e.g. posts/hello.md"`
	Title string   `help:"Document title (defaults to one derived from the file name)"`
	Date  string   `help:"Document date (defaults to today for posts and works)"`
	Tags  []string `short:"t" help:"Tag to attach (repeatable)"`
	Draft bool     `help:"Mark the document as a draft"`
	TOML  bool     `name:"toml" help:"Write TOML front matter instead of YAML"`
	Force bool     `help:"Overwrite an existing document"`
}

func (n *NewCmd) Run(g *Global, root *CLI) error {
	cfg, err := g.setup(root)
	if err != nil {
		return err
	}

	rel := path.Clean(filepath.ToSlash(n.Path))
	if path.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") || path.Ext(rel) != ".md" {
		return errors.ValidationError("document path must be a .md file inside the content directory").
			WithContext(errors.KeyPath, n.Path).
			Build()
	}

	format := frontmatter.FormatYAML
	if n.TOML {
		format = frontmatter.FormatTOML
	}
	content, entry, err := docmodel.Compose(rel, n.fields(rel), format, nil)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	target := filepath.Join(cfg.ContentDir(), filepath.FromSlash(rel))
	if exists, _ := afero.Exists(fs, target); exists && !n.Force {
		return errors.DocumentError("document already exists").
			WithContext(errors.KeyPath, target).
			WithContext("hint", "use --force to overwrite").
			Build()
	}
	if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").WithContext(errors.KeyPath, filepath.Dir(target)).Build()
	}
	// #nosec G306 -- site sources are meant to be world-readable
	if err := afero.WriteFile(fs, target, content, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write document").WithContext(errors.KeyPath, target).Build()
	}

	fmt.Fprintf(g.out(), "created %s (%s)\n", target, entry.Document().Category())
	return nil
}

func (n *NewCmd) fields(rel string) map[string]any {
	title := n.Title
	if title == "" {
		name := strings.TrimSuffix(path.Base(rel), ".md")
		title = cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(name))
	}
	fields := map[string]any{"title": title}

	date := n.Date
	switch docmodel.CategoryFromPath(rel) {
	case docmodel.CategoryPost, docmodel.CategoryWork:
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
	}
	if date != "" {
		fields["date"] = date
	}
	if len(n.Tags) > 0 {
		fields["tags"] = append([]string(nil), n.Tags...)
	}
	if n.Draft {
		fields["draft"] = true
	}
	return fields
}
