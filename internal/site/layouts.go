package site

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

//go:embed layouts/*.html
var embeddedLayouts embed.FS

//go:embed assets/site.css
var defaultStylesheet []byte

// Layout names with a fixed role. Any other layout file is selectable from
// front matter.
const (
	LayoutSingle   = "single"
	LayoutList     = "list"
	LayoutHome     = "home"
	LayoutTags     = "tags"
	LayoutTerm     = "term"
	LayoutNotFound = "404"

	layoutBase     = "base"
	layoutPartials = "partials"
)

// Layouts holds one parsed template set per layout name.
type Layouts struct {
	sets    map[string]*template.Template
	sources map[string]string
}

// LoadLayouts parses the embedded layouts. Files named <layout>.html in
// overrideDir on fs replace the embedded file of the same name or add a new
// layout; an empty overrideDir uses only the embedded set.
func LoadLayouts(fs afero.Fs, overrideDir string, baseURL string) (*Layouts, error) {
	files := map[string][]byte{}
	sources := map[string]string{}

	entries, err := embeddedLayouts.ReadDir("layouts")
	if err != nil {
		return nil, errors.InternalError("embedded layouts missing").Build()
	}
	for _, e := range entries {
		data, readErr := embeddedLayouts.ReadFile(path.Join("layouts", e.Name()))
		if readErr != nil {
			return nil, errors.WrapError(readErr, errors.CategoryInternal, "failed to read embedded layout").Build()
		}
		name := strings.TrimSuffix(e.Name(), ".html")
		files[name] = data
		sources[name] = "embedded"
	}

	if overrideDir != "" {
		if ok, _ := afero.DirExists(fs, overrideDir); ok {
			matches, _ := afero.Glob(fs, filepath.Join(overrideDir, "*.html"))
			for _, m := range matches {
				data, readErr := afero.ReadFile(fs, m)
				if readErr != nil {
					return nil, errors.WrapError(readErr, errors.CategoryFileSystem, "failed to read layout override").
						WithContext("path", m).
						Build()
				}
				name := strings.TrimSuffix(filepath.Base(m), ".html")
				files[name] = data
				sources[name] = m
				slog.Debug("Loaded layout override", logfields.Layout(name), slog.String("path", m))
			}
		}
	}

	funcs := templateFuncs(baseURL)
	common, err := template.New(layoutBase).Funcs(funcs).Parse(string(files[layoutBase]))
	if err == nil {
		_, err = common.New(layoutPartials).Parse(string(files[layoutPartials]))
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to parse base layout").
			WithContext("source", sources[layoutBase]).
			UserAction().
			Build()
	}

	l := &Layouts{sets: map[string]*template.Template{}, sources: sources}
	for name, data := range files {
		if name == layoutBase || name == layoutPartials {
			continue
		}
		set, cloneErr := common.Clone()
		if cloneErr != nil {
			return nil, errors.WrapError(cloneErr, errors.CategoryInternal, "failed to clone base layout").Build()
		}
		if _, parseErr := set.New(name).Parse(string(data)); parseErr != nil {
			return nil, errors.WrapError(parseErr, errors.CategoryRender, "failed to parse layout").
				WithContext("layout", name).
				WithContext("source", sources[name]).
				UserAction().
				Build()
		}
		l.sets[name] = set
	}
	return l, nil
}

// Has reports whether a layout named name exists.
func (l *Layouts) Has(name string) bool {
	_, ok := l.sets[name]
	return ok
}

// Names returns the layout names, sorted.
func (l *Layouts) Names() []string {
	names := make([]string, 0, len(l.sets))
	for n := range l.sets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Source reports where a layout came from: "embedded" or the override path.
func (l *Layouts) Source(name string) string { return l.sources[name] }

// Execute renders data with the named layout inside the base layout.
func (l *Layouts) Execute(name string, data *PageData) ([]byte, error) {
	set, ok := l.sets[name]
	if !ok {
		return nil, errors.RenderError("unknown layout").WithContext("layout", name).Build()
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, layoutBase, data); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "layout execution failed").
			WithContext("layout", name).
			WithContext("permalink", data.Permalink).
			Build()
	}
	return buf.Bytes(), nil
}

// Label turns an identifier such as a category into a display label.
func Label(s string) string {
	// Casers keep state and cannot be shared between goroutines.
	return cases.Title(language.English).String(strings.ReplaceAll(s, "-", " "))
}

func templateFuncs(baseURL string) template.FuncMap {
	base := strings.TrimSuffix(baseURL, "/")
	return template.FuncMap{
		"absURL": func(p string) string { return base + p },
		"label":  Label,
		"lower":  strings.ToLower,
		"join":   strings.Join,
		"isoDate": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339)
		},
		"dateFormat": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
	}
}
