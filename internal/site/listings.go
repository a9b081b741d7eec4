package site

import (
	"context"
	"html/template"
	"sort"

	"git.home.luguber.info/inful/folio/internal/docmodel"
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// homeSectionSize caps the items per category on the home page.
const homeSectionSize = 5

// sortItems orders listings by sort date descending, then title, then path.
func sortItems(items []ListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.sortDate.Equal(b.sortDate) {
			return a.sortDate.After(b.sortDate)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.path < b.path
	})
}

// writeListings writes the home page, one page per listed category, the tag
// index, one page per tag that has one, and the 404 page.
func (d *Driver) writeListings(ctx context.Context, rendered []*renderedEntry, site *SiteData, pages *TagPages, report *Report) error {
	byPath := map[string]*renderedEntry{}
	intros := map[string]*renderedEntry{}
	byCategory := map[docmodel.Category][]ListItem{}

	for _, r := range rendered {
		byPath[r.path()] = r
		if isIntro(r) {
			intros[r.permalink] = r
			continue
		}
		if r.category().Listed() {
			byCategory[r.category()] = append(byCategory[r.category()], listItem(r, pages))
		}
	}

	home := &PageData{Site: site, Kind: LayoutHome, Title: site.Title, Permalink: "/", Summary: site.Description}
	applyIntro(home, intros["/"])

	for _, c := range docmodel.ListingCategories {
		items := byCategory[c]
		sortItems(items)
		permalink := categoryPermalink(c)
		intro := intros[permalink]
		if len(items) == 0 && intro == nil {
			continue
		}

		page := &PageData{
			Site:      site,
			Kind:      LayoutList,
			Title:     Label(string(c)),
			Permalink: permalink,
			Section:   permalink,
			Category:  string(c),
			Items:     items,
		}
		applyIntro(page, intro)
		if err := d.writePage(ctx, LayoutList, page, report); err != nil {
			return err
		}

		if len(items) > 0 {
			home.Sections = append(home.Sections, Section{
				Label:     page.Title,
				Permalink: permalink,
				Items:     items[:min(len(items), homeSectionSize)],
			})
		}
	}

	if err := d.writePage(ctx, LayoutHome, home, report); err != nil {
		return err
	}

	terms := make([]TagLink, 0, pages.Index.Len())
	for _, term := range pages.Index.Terms {
		link := TagLink{Key: term.Key, Label: term.Label, Count: term.Count}
		link.Permalink, _ = pages.Permalink(term.Key)
		terms = append(terms, link)
		if link.Permalink == "" {
			continue
		}

		items := make([]ListItem, 0, len(term.Documents))
		for _, e := range term.Documents {
			if r, ok := byPath[e.Document().Path()]; ok {
				items = append(items, listItem(r, pages))
			}
		}
		sortItems(items)
		page := &PageData{
			Site:      site,
			Kind:      LayoutTerm,
			Title:     term.Label,
			Permalink: link.Permalink,
			Section:   "/tags/",
			Items:     items,
		}
		if err := d.writePage(ctx, LayoutTerm, page, report); err != nil {
			return err
		}
	}

	tags := &PageData{Site: site, Kind: LayoutTags, Title: "Tags", Permalink: "/tags/", Section: "/tags/", Terms: terms}
	if err := d.writePage(ctx, LayoutTags, tags, report); err != nil {
		return err
	}

	notFound := &PageData{Site: site, Kind: LayoutNotFound, Title: "Page not found", Permalink: "/404.html"}
	html, err := d.layouts.Execute(LayoutNotFound, notFound)
	if err != nil {
		return err
	}
	if err := d.writeArtifact(ctx, NotFoundFile, html); err != nil {
		return errors.WrapError(err, errors.CategoryBuild, "failed to write 404 page").Build()
	}
	report.mu.Lock()
	report.Pages++
	report.mu.Unlock()
	return nil
}

// applyIntro puts an index document's title and content on a listing page.
func applyIntro(page *PageData, intro *renderedEntry) {
	if intro == nil {
		return
	}
	if t := intro.entry.Common().Title; t != "" {
		page.Title = t
	}
	page.Content = template.HTML(intro.display.HTML) // #nosec G203 -- rendered by goldmark from site-owned content
	if intro.display.Summary != "" {
		page.Summary = intro.display.Summary
	}
	page.Params = intro.entry.Document().FrontMatter()
	page.LastModified = intro.lastModified
}
