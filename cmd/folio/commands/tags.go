package commands

import (
	"context"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"git.home.luguber.info/inful/folio/internal/docmodel"
)

// TagsCmd implements the 'tags' command.
type TagsCmd struct {
	Format string `short:"f" enum:"table,csv,markdown" default:"table" help:"Output format (table, csv, markdown)"`
	Docs   bool   `help:"List the documents of each tag"`
}

func (c *TagsCmd) Run(g *Global, root *CLI) error {
	cfg, err := g.setup(root)
	if err != nil {
		return err
	}
	d, err := newDriver(g, cfg)
	if err != nil {
		return err
	}

	// Documents that fail to parse are reported by check; tags of the rest
	// are still listed.
	res, checkErr := d.Check(context.Background())
	if res == nil || res.Tags == nil {
		return checkErr
	}
	idx := res.Tags.Index

	t := table.NewWriter()
	t.SetOutputMirror(g.out())
	t.SetStyle(table.StyleRounded)
	header := table.Row{"Tag", "Count", "Page"}
	if c.Docs {
		header = append(header, "Documents")
	}
	t.AppendHeader(header)
	for _, term := range idx.Terms {
		page, _ := res.Tags.Permalink(term.Key)
		row := table.Row{term.Label, term.Count, page}
		if c.Docs {
			paths := lo.Map(term.Documents, func(e docmodel.Entry, _ int) string { return e.Document().Path() })
			row = append(row, strings.Join(paths, "\n"))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", idx.Len(), ""})

	switch c.Format {
	case "csv":
		t.RenderCSV()
	case "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
	}
	return checkErr
}
