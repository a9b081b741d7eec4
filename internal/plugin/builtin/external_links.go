package builtin

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/folio/internal/plugin"
)

var externalRel = []string{"noopener", "noreferrer"}

// externalLinks opens links to other hosts in a new tab without leaking the
// opener or referrer.
type externalLinks struct {
	siteHost string
}

func newExternalLinks(s plugin.Settings) (plugin.Plugin, error) {
	return &externalLinks{siteHost: strings.ToLower(s.SiteHost)}, nil
}

func (p *externalLinks) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        NameExternalLinks,
		Description: "rel/target attributes on links to other hosts",
		Stage:       plugin.StageHTML,
	}
}

func (p *externalLinks) TransformHTML(_ *plugin.DocumentContext, fragment []byte) ([]byte, error) {
	if !bytes.Contains(fragment, []byte("<a")) {
		return fragment, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}

	changed := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A && p.isExternal(attr(n, "href")) {
			setAttr(n, "rel", mergeTokens(attr(n, "rel"), externalRel))
			setAttr(n, "target", "_blank")
			changed = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	if !changed {
		return fragment, nil
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (p *externalLinks) isExternal(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return p.siteHost == "" || !strings.EqualFold(u.Hostname(), p.siteHost)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func mergeTokens(existing string, add []string) string {
	tokens := strings.Fields(existing)
	for _, tok := range add {
		found := false
		for _, have := range tokens {
			if strings.EqualFold(have, tok) {
				found = true
				break
			}
		}
		if !found {
			tokens = append(tokens, tok)
		}
	}
	return strings.Join(tokens, " ")
}
