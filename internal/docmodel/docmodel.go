// Package docmodel holds the parsed content document and its typed entry
// variants (work history, projects, blog posts, plain pages).
package docmodel

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/frontmatter"
	"git.home.luguber.info/inful/folio/internal/markdown"
)

// Document is a content file split into its front matter and markdown body.
//
// A Document is immutable after Parse: every accessor returns a copy, so a
// document can be shared between goroutines of the render pool.
type Document struct {
	path     string
	category Category
	fields   map[string]any
	body     []byte
	bodyLine int
	style    frontmatter.Style

	linksOnce sync.Once
	links     []markdown.Link
	linksErr  error
}

// Parse builds a Document from raw file content. path is the slash-separated
// path relative to the content root and selects the category.
//
// A document without a front matter block, with an unterminated block, or with
// a block that is not a key/value mapping fails with ErrMalformedDocument.
func Parse(path string, content []byte) (*Document, error) {
	fmRaw, body, had, style, err := frontmatter.Split(content)
	if err != nil {
		return nil, malformed(path, 1, err)
	}
	if !had {
		return nil, malformed(path, 1, errNoFrontmatter)
	}

	fields, err := frontmatter.Parse(fmRaw, style.Format)
	if err != nil {
		line := 1
		if rel := frontmatter.ErrorLine(err); rel > 0 {
			line += rel
		}
		return nil, malformed(path, line, err)
	}

	for key, value := range fields {
		if !isSupportedValue(value) {
			return nil, malformed(path, keyLine(fmRaw, key), fmt.Errorf("field %q must be a scalar or a list of scalars", key))
		}
	}

	return &Document{
		path:     path,
		category: CategoryFromPath(path),
		fields:   fields,
		body:     append([]byte(nil), body...),
		bodyLine: frontmatter.BodyLine(fmRaw, had),
		style:    style,
	}, nil
}

// Path returns the slash-separated path relative to the content root.
func (d *Document) Path() string { return d.path }

// Category returns the category derived from the first path segment.
func (d *Document) Category() Category { return d.category }

// Format returns the front matter syntax the document was written in.
func (d *Document) Format() frontmatter.Format { return d.style.Format }

// BodyLine returns the 1-based file line on which the body starts.
func (d *Document) BodyLine() int { return d.bodyLine }

// FrontMatter returns a deep copy of the parsed front matter.
func (d *Document) FrontMatter() map[string]any {
	out := make(map[string]any, len(d.fields))
	for k, v := range d.fields {
		out[k] = cloneValue(v)
	}
	return out
}

// Body returns the markdown body bytes (front matter removed).
func (d *Document) Body() []byte {
	return append([]byte(nil), d.body...)
}

// Has reports whether key is present with a non-empty value.
func (d *Document) Has(key string) bool {
	v, ok := d.fields[key]
	if !ok || v == nil {
		return false
	}
	switch vv := v.(type) {
	case string:
		return strings.TrimSpace(vv) != ""
	case []any:
		return len(vv) > 0
	}
	return true
}

// String returns a scalar front matter value as text. Lists and missing keys
// yield "".
func (d *Document) String(key string) string {
	v, ok := d.fields[key]
	if !ok || v == nil {
		return ""
	}
	switch vv := v.(type) {
	case []any:
		return ""
	case time.Time:
		if vv.Hour() == 0 && vv.Minute() == 0 && vv.Second() == 0 {
			return vv.Format("2006-01-02")
		}
		return vv.Format(time.RFC3339)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Strings returns a list value as text. A scalar is treated as a single item.
func (d *Document) Strings(key string) []string {
	v, ok := d.fields[key]
	if !ok || v == nil {
		return nil
	}
	list, isList := v.([]any)
	if !isList {
		s := strings.TrimSpace(fmt.Sprint(v))
		if s == "" {
			return nil
		}
		return []string{s}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Bool returns a boolean value. The strings "true" and "yes" count as true.
func (d *Document) Bool(key string) bool {
	switch v := d.fields[key].(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "true" || s == "yes"
	}
	return false
}

func isSupportedValue(v any) bool {
	switch vv := v.(type) {
	case []any:
		for _, item := range vv {
			if _, nested := item.(map[string]any); nested {
				return false
			}
			if _, nested := item.([]any); nested {
				return false
			}
		}
		return true
	case map[string]any:
		// Nested tables are allowed for theme params but never read as fields.
		return true
	}
	return true
}

func cloneValue(v any) any {
	switch vv := v.(type) {
	case []any:
		out := make([]any, len(vv))
		for i, item := range vv {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, item := range vv {
			out[k] = cloneValue(item)
		}
		return out
	}
	return v
}

// keyLine returns the file line of a top-level key, or the opening delimiter
// line when it cannot be located.
func keyLine(fmRaw []byte, key string) int {
	for i, line := range strings.Split(string(fmRaw), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, key) {
			rest := strings.TrimLeft(trimmed[len(key):], " \t")
			if strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "=") {
				return i + 2
			}
		}
	}
	return 1
}

func malformed(path string, line int, cause error) error {
	return errors.WrapError(cause, errors.CategoryDocument, ErrMalformedDocument.Message()).
		UserAction().
		At(path, line).
		Build()
}
