package site

import (
	"html/template"
	"time"

	"git.home.luguber.info/inful/folio/internal/docmodel"
	"git.home.luguber.info/inful/folio/internal/render"
)

// SiteData is the site-wide part of every page.
type SiteData struct {
	Title       string
	BaseURL     string
	Description string
	Author      string
	Language    string
	Version     string
	Year        int
	Menu        []MenuItem
}

// MenuItem is a navigation link.
type MenuItem struct {
	Label     string
	Permalink string
}

// TagLink points at a tag page.
type TagLink struct {
	Key       string
	Label     string
	Permalink string
	Count     int
}

// EntryMeta carries the variant-specific fields of an entry.
type EntryMeta struct {
	Org      string
	Location string
	URL      string
	Author   string
	Date     string
}

// ListItem is one entry of a listing.
type ListItem struct {
	Title     string
	Permalink string
	Date      string
	Summary   string
	Category  string
	Org       string
	Tags      []TagLink

	sortDate time.Time
	path     string
}

// Section is a group of items on the home page.
type Section struct {
	Label     string
	Permalink string
	Items     []ListItem
}

// PageData is the value layouts execute against.
type PageData struct {
	Site *SiteData
	// Kind is the layout role: single, list, home, tags, term, or 404.
	Kind      string
	Title     string
	Permalink string
	// Section is the permalink of the category the page belongs to.
	Section      string
	Category     string
	Summary      string
	Content      template.HTML
	Meta         *EntryMeta
	Tags         []TagLink
	Headings     []render.Heading
	LastModified time.Time
	Params       map[string]any
	Items        []ListItem
	Sections     []Section
	Terms        []TagLink
}

// renderedEntry is a document that made it through rendering.
type renderedEntry struct {
	entry        docmodel.Entry
	permalink    string
	display      *render.DisplayDocument
	lastModified time.Time
}

func (r *renderedEntry) path() string { return r.entry.Document().Path() }

func (r *renderedEntry) category() docmodel.Category { return r.entry.Document().Category() }

func entryMeta(e docmodel.Entry) *EntryMeta {
	m := &EntryMeta{Date: e.Common().Date}
	switch v := e.(type) {
	case *docmodel.WorkEntry:
		m.Org, m.Location, m.URL = v.Org, v.Location, v.URL
	case *docmodel.ProjectEntry:
		m.URL = v.URL
	case *docmodel.BlogPost:
		m.Author = v.Author
	}
	if *m == (EntryMeta{}) {
		return nil
	}
	return m
}

func tagLinks(tags []string, pages *TagPages) []TagLink {
	var out []TagLink
	seen := map[string]struct{}{}
	for _, raw := range tags {
		link := pages.Link(raw)
		if link.Key == "" {
			continue
		}
		if _, dup := seen[link.Key]; dup {
			continue
		}
		seen[link.Key] = struct{}{}
		out = append(out, link)
	}
	return out
}

func listItem(r *renderedEntry, pages *TagPages) ListItem {
	c := r.entry.Common()
	item := ListItem{
		Title:     c.Title,
		Permalink: r.permalink,
		Date:      c.Date,
		Summary:   r.display.Summary,
		Category:  string(r.category()),
		Tags:      tagLinks(c.Tags, pages),
		sortDate:  c.SortDate,
		path:      r.path(),
	}
	if w, ok := r.entry.(*docmodel.WorkEntry); ok {
		item.Org = w.Org
	}
	return item
}
