package docmodel

import (
	"time"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// Entry is a resolved, typed view of a Document.
type Entry interface {
	// Document returns the source document.
	Document() *Document
	// Common returns the fields shared by every variant.
	Common() *Base
	// RequiredFields lists the front matter keys the variant cannot render without.
	RequiredFields() []string
}

// Base carries the fields every entry variant shares.
type Base struct {
	doc *Document

	Title       string
	Date        string
	Description string
	Layout      string
	Slug        string
	Tags        []string
	Draft       bool

	// SortDate is a best-effort reading of Date used only for ordering.
	SortDate time.Time
}

// Document returns the source document.
func (b *Base) Document() *Document { return b.doc }

// Common returns b.
func (b *Base) Common() *Base { return b }

// WorkEntry is a position in the work history.
type WorkEntry struct {
	Base
	Org      string
	Location string
	URL      string
}

// RequiredFields implements Entry.
func (*WorkEntry) RequiredFields() []string { return []string{"title", "date"} }

// ProjectEntry is a project showcase.
type ProjectEntry struct {
	Base
	URL string
}

// RequiredFields implements Entry.
func (*ProjectEntry) RequiredFields() []string { return []string{"title"} }

// BlogPost is a dated article.
type BlogPost struct {
	Base
	Author string
}

// RequiredFields implements Entry.
func (*BlogPost) RequiredFields() []string { return []string{"title", "date"} }

// Page is any document outside the listed categories.
type Page struct {
	Base
}

// RequiredFields implements Entry.
func (*Page) RequiredFields() []string { return []string{"title"} }

// Resolve selects the entry variant for the document's category and checks
// that every field the variant requires is present.
func Resolve(doc *Document) (Entry, error) {
	base := newBase(doc)

	var entry Entry
	switch doc.Category() {
	case CategoryWork:
		entry = &WorkEntry{
			Base:     base,
			Org:      doc.String("org"),
			Location: doc.String("location"),
			URL:      doc.String("url"),
		}
	case CategoryProject:
		entry = &ProjectEntry{Base: base, URL: doc.String("url")}
	case CategoryPost:
		entry = &BlogPost{Base: base, Author: doc.String("author")}
	default:
		entry = &Page{Base: base}
	}

	if field, ok := MissingField(doc, entry.RequiredFields()); ok {
		return nil, errors.DocumentError(ErrMissingRequiredField.Message()).
			At(doc.Path(), 1).
			WithContext("field", field).
			WithContext("category", string(doc.Category())).
			Build()
	}
	return entry, nil
}

// MissingField returns the first required key that is absent or empty.
func MissingField(doc *Document, required []string) (string, bool) {
	for _, key := range required {
		if !doc.Has(key) {
			return key, true
		}
	}
	return "", false
}

func newBase(doc *Document) Base {
	date := doc.String("date")
	return Base{
		doc:         doc,
		Title:       doc.String("title"),
		Date:        date,
		Description: doc.String("description"),
		Layout:      doc.String("layout"),
		Slug:        doc.String("slug"),
		Tags:        doc.Strings("tags"),
		Draft:       doc.Bool("draft"),
		SortDate:    ParseSortDate(date),
	}
}
