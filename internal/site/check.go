package site

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/folio/internal/docmodel"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

// CheckResult is the outcome of a parse-only pass over the content.
type CheckResult struct {
	Report *Report
	// Entries are the documents a build would render, in path order.
	Entries []docmodel.Entry
	// Permalinks maps content paths of Entries to their URL paths.
	Permalinks map[string]string
	// Tags indexes the listed Entries and the tag pages a build would write.
	Tags *TagPages
}

// Check parses and resolves every document and assigns permalinks without
// rendering or writing anything. Failures are collected like in Build.
func (d *Driver) Check(ctx context.Context) (*CheckResult, error) {
	report := newReport(d.recorder)
	logger := d.logger.With(logfields.BuildID(report.BuildID))

	store := NewStore(d.fs, d.cfg.ContentDir())
	inv, err := store.Scan()
	if err != nil {
		return nil, err
	}
	report.Documents = len(inv.Documents)

	res := &CheckResult{Report: report, Permalinks: map[string]string{}}
	entries, err := d.parseAll(ctx, store, inv.Documents, report, logger)
	if err == nil {
		var candidates []candidate
		var links permalinkIndex
		candidates, links, err = d.selectEntries(entries, report, logger)
		var listed []docmodel.Entry
		reserved := map[string]struct{}{}
		for _, c := range candidates {
			res.Entries = append(res.Entries, c.entry)
			res.Permalinks[c.entry.Document().Path()] = c.permalink
			reserved[c.permalink] = struct{}{}
			if !introPermalink(c.entry.Document().Category(), c.permalink) {
				listed = append(listed, c.entry)
			}
		}
		var collisions []error
		res.Tags, collisions = planTagPages(listed, reserved)
		for _, cerr := range collisions {
			report.addIssue(StageListings, cerr)
		}
		d.checkLinks(candidates, links, report, logger)
	}
	report.finish(ctx.Err() != nil)
	if err != nil {
		return res, err
	}
	return res, report.Err()
}

// checkLinks warns about links to markdown sources that are not built. A
// build reports the same links while rewriting them.
func (d *Driver) checkLinks(candidates []candidate, links permalinkIndex, report *Report, logger *slog.Logger) {
	exists := func(contentPath string) bool {
		_, ok := links.Permalink(contentPath)
		return ok
	}
	for _, c := range candidates {
		doc := c.entry.Document()
		warnings, err := doc.UnknownContentLinks(exists)
		if err != nil {
			warnings = []error{err}
		}
		for _, w := range warnings {
			logger.Warn("Unknown link target", logfields.Document(doc.Path()), logfields.Error(w))
			report.addIssue(StageParse, w)
		}
	}
}
