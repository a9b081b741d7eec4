package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/plugin/builtin"
	"git.home.luguber.info/inful/folio/internal/render"
)

// PluginsCmd implements the 'plugins' command.
type PluginsCmd struct {
	Available bool `help:"List every built-in plugin instead of the enabled ones"`
}

func (p *PluginsCmd) Run(g *Global, root *CLI) error {
	cfg, err := g.setup(root)
	if err != nil {
		return err
	}
	if p.Available {
		cfg.Plugins.Enabled = builtin.Names()
	}
	rc, err := render.FromConfig(cfg, afero.NewOsFs())
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(g.out())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Plugin", "Stage", "Description"})
	for i, pl := range rc.Plugins.Plugins() {
		m := pl.Metadata()
		t.AppendRow(table.Row{i + 1, m.Name, m.Stage, m.Description})
	}
	t.Render()
	return nil
}
