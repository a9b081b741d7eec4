// Package taxonomy aggregates document tags into a tag index.
package taxonomy

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"git.home.luguber.info/inful/folio/internal/docmodel"
)

// Term is one tag of the index.
type Term struct {
	// Key is the lowercased, trimmed tag; it is also the URL segment.
	Key string
	// Label is the first spelling of the tag seen in path order.
	Label string
	Count int
	// Documents lists the entries carrying the tag, in input order.
	Documents []docmodel.Entry
}

// Index is the ordered tag index of a build.
type Index struct {
	Terms []Term
	byKey map[string]int
}

// Build aggregates the tags of entries. Entries are expected in path order so
// labels are stable. A document counts at most once per key.
func Build(entries []docmodel.Entry) *Index {
	byKey := map[string]*Term{}
	var order []string

	for _, e := range entries {
		seen := map[string]struct{}{}
		for _, raw := range e.Common().Tags {
			label := strings.TrimSpace(raw)
			key := Key(label)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			term, ok := byKey[key]
			if !ok {
				term = &Term{Key: key, Label: label}
				byKey[key] = term
				order = append(order, key)
			}
			term.Count++
			term.Documents = append(term.Documents, e)
		}
	}

	terms := lo.Map(order, func(k string, _ int) Term { return *byKey[k] })
	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Key < terms[j].Key
	})

	idx := &Index{Terms: terms, byKey: make(map[string]int, len(terms))}
	for i, t := range terms {
		idx.byKey[t.Key] = i
	}
	return idx
}

// Key normalizes a tag to its index key.
func Key(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Lookup returns the term for tag, matched case-insensitively.
func (idx *Index) Lookup(tag string) (Term, bool) {
	i, ok := idx.byKey[Key(tag)]
	if !ok {
		return Term{}, false
	}
	return idx.Terms[i], true
}

// Len returns the number of distinct tags.
func (idx *Index) Len() int { return len(idx.Terms) }
