package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"git.home.luguber.info/inful/folio/internal/site"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Drafts bool `help:"Check documents marked as draft too"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := g.setup(root)
	if err != nil {
		return err
	}
	if c.Drafts {
		cfg.Build.Drafts = true
	}
	d, err := newDriver(g, cfg)
	if err != nil {
		return err
	}

	res, err := d.Check(context.Background())
	if res != nil {
		r := res.Report
		if len(r.Issues) > 0 {
			writeIssues(g.out(), r.Issues)
		}
		fmt.Fprintf(g.out(), "%d documents: %d ok, %d drafts, %d failed\n",
			r.Documents, len(res.Entries), r.Drafts, r.Failed)
	}
	return err
}

func writeIssues(w io.Writer, issues []site.ReportIssue) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Path", "Line", "Severity", "Category", "Message"})
	for _, is := range issues {
		line := ""
		if is.Line > 0 {
			line = fmt.Sprint(is.Line)
		}
		t.AppendRow(table.Row{is.Path, line, is.Severity, is.Category, is.Message})
	}
	t.Render()
}
