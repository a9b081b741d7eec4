package builtin

import (
	"embed"
	"fmt"
	"html"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/folio/internal/markdown"
	"git.home.luguber.info/inful/folio/internal/plugin"
)

//go:embed icons/*.svg
var embeddedIcons embed.FS

const iconScheme = "icon:"

var iconNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// icons replaces images pointing at icon:<name> with inline SVG. Icons in the
// configured directory shadow the embedded set.
type icons struct {
	fs  afero.Fs
	dir string

	mu    sync.RWMutex
	cache map[string][]byte
}

func newIcons(s plugin.Settings) (plugin.Plugin, error) {
	if s.IconsDir != "" {
		info, err := s.Fs.Stat(s.IconsDir)
		if err != nil {
			return nil, fmt.Errorf("icons directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("icons directory %s is not a directory", s.IconsDir)
		}
	}
	return &icons{fs: s.Fs, dir: s.IconsDir, cache: make(map[string][]byte)}, nil
}

func (p *icons) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        NameIcons,
		Description: "inline SVG for icon:<name> images",
		Stage:       plugin.StageDocument,
		Dependencies: plugin.Dependencies{
			MustRunAfter: []string{NameLinkRewrite},
		},
	}
}

func (p *icons) TransformDocument(dc *plugin.DocumentContext, root ast.Node) error {
	var images []*ast.Image
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := n.(*ast.Image); ok && entering && strings.HasPrefix(string(img.Destination), iconScheme) {
			images = append(images, img)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, img := range images {
		dest := string(img.Destination)
		name := strings.ToLower(strings.TrimPrefix(dest, iconScheme))
		label := markdown.NodeText(img, dc.Source)

		svg, ok := p.lookup(name)
		if !ok {
			dc.Warn(NameIcons, dc.Line(dest), fmt.Sprintf("unknown icon %q", name))
		}

		replacement := ast.NewString([]byte(iconMarkup(name, label, svg, ok)))
		replacement.SetCode(true)
		parent := img.Parent()
		parent.ReplaceChild(parent, img, replacement)
	}
	return nil
}

func iconMarkup(name, label string, svg []byte, found bool) string {
	var sb strings.Builder
	sb.WriteString(`<span class="icon`)
	if !found {
		sb.WriteString(` icon-missing`)
	}
	sb.WriteString(`" data-icon="`)
	sb.WriteString(html.EscapeString(name))
	sb.WriteString(`"`)
	if label != "" {
		sb.WriteString(` role="img" aria-label="`)
		sb.WriteString(html.EscapeString(label))
		sb.WriteString(`"`)
	} else {
		sb.WriteString(` aria-hidden="true"`)
	}
	sb.WriteString(`>`)
	if found {
		sb.Write(svg)
	}
	sb.WriteString(`</span>`)
	return sb.String()
}

func (p *icons) lookup(name string) ([]byte, bool) {
	if !iconNameRe.MatchString(name) {
		return nil, false
	}

	p.mu.RLock()
	svg, ok := p.cache[name]
	p.mu.RUnlock()
	if ok {
		return svg, true
	}

	svg, ok = p.load(name)
	if !ok {
		return nil, false
	}

	p.mu.Lock()
	p.cache[name] = svg
	p.mu.Unlock()
	return svg, true
}

func (p *icons) load(name string) ([]byte, bool) {
	file := name + ".svg"
	if p.dir != "" {
		if data, err := afero.ReadFile(p.fs, path.Join(p.dir, file)); err == nil {
			return trimSVG(data), true
		}
	}
	data, err := embeddedIcons.ReadFile("icons/" + file)
	if err != nil {
		return nil, false
	}
	return trimSVG(data), true
}

// trimSVG drops an XML prolog and surrounding whitespace so the markup can be
// inlined.
func trimSVG(data []byte) []byte {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, "<?xml") {
		if end := strings.Index(s, "?>"); end >= 0 {
			s = strings.TrimSpace(s[end+2:])
		}
	}
	return []byte(s)
}

// EmbeddedIconNames lists the icons shipped in the binary.
func EmbeddedIconNames() []string {
	entries, err := embeddedIcons.ReadDir("icons")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".svg"))
	}
	return names
}
