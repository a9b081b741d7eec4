package plugin

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Settings carries the configuration plugins are built from.
type Settings struct {
	// Extensions names goldmark extensions for the markdown-extensions plugin.
	Extensions []string
	// IconsDir is an optional directory of <name>.svg icons on Fs.
	IconsDir string
	// CompressMinBytes is the smallest artifact that gets compressed siblings.
	CompressMinBytes int
	// SiteHost is the host of the site base URL; links to it are internal.
	SiteHost string
	// Fs resolves IconsDir. Nil means the OS filesystem.
	Fs afero.Fs
}

// Factory builds a plugin from settings.
type Factory func(Settings) (Plugin, error)

// Registry maps plugin names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
// Returns an error if the name is empty or already registered.
func (r *Registry) Register(name string, factory Factory) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("plugin name is required")
	}
	if factory == nil {
		return fmt.Errorf("cannot register nil factory for plugin %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Has checks if a plugin with the given name exists.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates the named plugins and orders them into a Set. Unknown
// names are errors; the order of names does not affect the result.
func (r *Registry) Build(names []string, settings Settings) (*Set, error) {
	if settings.Fs == nil {
		settings.Fs = afero.NewOsFs()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]Plugin, 0, len(names))
	for _, name := range names {
		factory, ok := r.factories[name]
		if !ok {
			known := make([]string, 0, len(r.factories))
			for k := range r.factories {
				known = append(known, k)
			}
			sort.Strings(known)
			return nil, fmt.Errorf("unknown plugin %q (known: %s)", name, strings.Join(known, ", "))
		}
		p, err := factory(settings)
		if err != nil {
			return nil, failure(name, "init", err)
		}
		if got := p.Metadata().Name; got != name {
			return nil, fmt.Errorf("plugin registered as %q reports name %q", name, got)
		}
		plugins = append(plugins, p)
	}
	return NewSet(plugins...)
}
