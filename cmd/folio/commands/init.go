package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir   string `arg:"" optional:"" default:"." type:"path" help:"Directory to initialize"`
	Force bool   `help:"Overwrite existing files"`
}

func (i *InitCmd) Run(g *Global, _ *CLI) error {
	written, err := config.Init(afero.NewOsFs(), i.Dir, i.Force)
	for _, rel := range written {
		fmt.Fprintf(g.out(), "created %s\n", filepath.Join(i.Dir, filepath.FromSlash(rel)))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(g.out(), "Run `folio -c %s build` to build the site.\n", filepath.Join(i.Dir, config.DefaultFilename))
	return nil
}
