package site

import (
	"fmt"

	"git.home.luguber.info/inful/folio/internal/docmodel"
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/taxonomy"
)

// ErrTagPageCollision is recorded when a tag page would overwrite another
// page. The tag keeps its count but gets no page.
var ErrTagPageCollision = errors.NewError(errors.CategoryBuild, "tag page collides with another page").Warning().Build()

// TagPages is the tag index of the listed documents together with the
// permalink of every tag page that will be written.
type TagPages struct {
	Index *taxonomy.Index
	pages map[string]string
}

// planTagPages builds the tag index from entries and assigns tag pages.
// reserved holds the permalinks already taken by documents and listings; a
// tag whose page would land on one of them, or on the page of an earlier
// tag, gets no page and a warning in collisions.
func planTagPages(entries []docmodel.Entry, reserved map[string]struct{}) (*TagPages, []error) {
	tp := &TagPages{Index: taxonomy.Build(entries), pages: map[string]string{}}
	taken := make(map[string]string, len(reserved)+tp.Index.Len())
	for p := range reserved {
		taken[p] = ""
	}
	taken["/"] = ""
	taken["/tags/"] = ""
	for _, c := range docmodel.ListingCategories {
		taken[categoryPermalink(c)] = ""
	}

	var collisions []error
	for _, term := range tp.Index.Terms {
		permalink := TagPermalink(term.Key)
		if owner, clash := taken[permalink]; clash {
			detail := fmt.Sprintf("tag %q at %s", term.Label, permalink)
			if owner != "" {
				detail += fmt.Sprintf(" (already used by tag %q)", owner)
			}
			collisions = append(collisions, ErrTagPageCollision.WithContext("detail", detail))
			continue
		}
		taken[permalink] = term.Label
		tp.pages[term.Key] = permalink
	}
	return tp, collisions
}

// Permalink returns the page of the tag with key, if one is written.
func (tp *TagPages) Permalink(key string) (string, bool) {
	if tp == nil {
		return "", false
	}
	p, ok := tp.pages[key]
	return p, ok
}

// Link returns the link for a tag as spelled in a document. Permalink is
// empty when the tag has no page.
func (tp *TagPages) Link(raw string) TagLink {
	key := taxonomy.Key(raw)
	link := TagLink{Key: key, Label: raw}
	link.Permalink, _ = tp.Permalink(key)
	if tp != nil {
		if term, ok := tp.Index.Lookup(key); ok {
			link.Count = term.Count
		}
	}
	return link
}
