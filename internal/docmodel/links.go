package docmodel

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/markdown"
)

// LinkRef is a link found in the body together with its location.
type LinkRef struct {
	Link     markdown.Link
	BodyLine int
	FileLine int
}

// Links returns the link-like constructs of the body. The result is computed
// once per document.
func (d *Document) Links() ([]markdown.Link, error) {
	d.linksOnce.Do(func() {
		links, err := markdown.ExtractLinks(d.body)
		if err != nil {
			d.linksErr = errors.WrapError(err, errors.CategoryDocument, "failed to extract markdown links").
				WithContext("path", d.path).
				Build()
			return
		}
		d.links = links
	})

	if d.linksErr != nil {
		return nil, d.linksErr
	}
	out := make([]markdown.Link, len(d.links))
	copy(out, d.links)
	return out, nil
}

// LinkRefs returns Links with body and file line numbers. Repeated
// destinations are mapped to successive lines.
func (d *Document) LinkRefs() ([]LinkRef, error) {
	links, err := d.Links()
	if err != nil {
		return nil, err
	}

	refs := make([]LinkRef, 0, len(links))
	nextSearch := make(map[string]int)

	for _, link := range links {
		key := string(link.Kind) + "\x00" + link.Destination

		bodyLine := d.FindNextLineContaining(link.Destination, nextSearch[key])
		nextSearch[key] = bodyLine + 1

		refs = append(refs, LinkRef{
			Link:     link,
			BodyLine: bodyLine,
			FileLine: d.FileLine(bodyLine),
		})
	}
	return refs, nil
}

// ErrUnknownLinkTarget is reported for a relative link to a markdown source
// that is not a content document.
var ErrUnknownLinkTarget = errors.DocumentError("link target does not match a content document").Warning().Build()

// ContentLink resolves a link destination found in the document at from.
// target is the content path the link points at and suffix the query and
// fragment to keep. Absolute URLs and non-markdown destinations are not
// content links.
func ContentLink(from, dest string) (target, suffix string, ok bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "//") {
		return "", "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", "", false
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if ext != ".md" && ext != ".markdown" {
		return "", "", false
	}

	if u.RawQuery != "" {
		suffix += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		suffix += "#" + u.EscapedFragment()
	}
	if strings.HasPrefix(u.Path, "/") {
		return strings.TrimPrefix(path.Clean(u.Path), "/"), suffix, true
	}
	return path.Join(path.Dir(from), u.Path), suffix, true
}

// UnknownContentLinks returns an ErrUnknownLinkTarget warning, located at
// its file line, for every link whose content target exists rejects.
func (d *Document) UnknownContentLinks(exists func(contentPath string) bool) ([]error, error) {
	refs, err := d.LinkRefs()
	if err != nil {
		return nil, err
	}
	var out []error
	for _, ref := range refs {
		if ref.Link.Kind != markdown.LinkKindInline {
			continue
		}
		target, _, ok := ContentLink(d.path, ref.Link.Destination)
		if !ok || exists(target) {
			continue
		}
		out = append(out, ErrUnknownLinkTarget.
			WithContext(errors.KeyPath, d.path).
			WithContext(errors.KeyLine, ref.FileLine).
			WithContext("detail", ref.Link.Destination))
	}
	return out, nil
}
