package site

import (
	"net/url"
	"path"
	"strings"
)

// Permalink computes the URL path a document is published at. A slug
// replaces the last path segment, or the whole path when it starts with "/".
// index.md and _index.md map to their directory. The result is lowercased,
// uses dashes for spaces, and always ends in "/".
func Permalink(contentPath, slug string) string {
	p := strings.TrimSuffix(contentPath, path.Ext(contentPath))
	dir, base := path.Split(p)
	if base == "index" || base == "_index" {
		base = ""
	}

	slug = strings.TrimSpace(slug)
	switch {
	case strings.HasPrefix(slug, "/"):
		dir, base = "", slug
	case slug != "":
		base = slug
	}

	return normalizeURLPath(path.Join("/", dir, base))
}

// normalizeURLPath lowercases p, escapes every segment with urlSegment and
// adds the trailing slash.
func normalizeURLPath(p string) string {
	segments := strings.Split(path.Clean("/"+p), "/")
	for i, seg := range segments {
		segments[i] = urlSegment(seg)
	}
	out := strings.Join(segments, "/")
	if !strings.HasSuffix(out, "/") {
		out += "/"
	}
	return out
}

// urlSegment turns one path segment into its href form: lowercase, dashes
// for whitespace runs, percent-escaped so "#" and "?" stay in the path.
// A segment made only of dots would be resolved by browsers, so its dots
// become dashes.
func urlSegment(seg string) string {
	seg = strings.Join(strings.Fields(strings.ToLower(seg)), "-")
	if seg != "" && strings.Trim(seg, ".") == "" {
		return strings.Repeat("-", len(seg))
	}
	return url.PathEscape(seg)
}

// OutputFile is the file a permalink is written to, relative to the output
// directory. Escaped segments are decoded, so "/tags/c%23/" is written to
// "tags/c#/index.html" and served back at the same URL.
func OutputFile(permalink string) string {
	segments := strings.Split(permalink, "/")
	for i, seg := range segments {
		if decoded, err := url.PathUnescape(seg); err == nil {
			segments[i] = decoded
		}
	}
	return strings.TrimPrefix(path.Join(path.Join(segments...), "index.html"), "/")
}

// TagPermalink returns the URL path of the page listing key.
func TagPermalink(key string) string {
	return "/tags/" + urlSegment(strings.ReplaceAll(key, "/", "-")) + "/"
}

// permalinkIndex maps content paths to permalinks. It implements
// plugin.LinkResolver.
type permalinkIndex map[string]string

func (p permalinkIndex) Permalink(contentPath string) (string, bool) {
	v, ok := p[contentPath]
	return v, ok
}
