package preview

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

// watcher turns filesystem events below the watched roots into rebuild
// triggers. Single files are watched through their parent directory.
type watcher struct {
	w       *fsnotify.Watcher
	roots   []string
	files   map[string]struct{}
	exclude []string
	logger  *slog.Logger
}

// newWatcher watches every directory below each existing dir and each file in
// files. Paths below exclude are ignored.
func newWatcher(dirs, files, exclude []string, logger *slog.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	w := &watcher{w: fw, files: map[string]struct{}{}, exclude: exclude, logger: logger}

	for _, dir := range dirs {
		if st, statErr := os.Stat(dir); statErr != nil || !st.IsDir() {
			logger.Debug("Not watching missing directory", slog.String("path", dir))
			continue
		}
		w.roots = append(w.roots, dir)
		w.addRecursive(dir)
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		w.files[f] = struct{}{}
		if addErr := fw.Add(filepath.Dir(f)); addErr != nil {
			logger.Warn("Watch add failed", slog.String("path", f), logfields.Error(addErr))
		}
	}
	return w, nil
}

func (w *watcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if w.excluded(p) {
				return filepath.SkipDir
			}
			if addErr := w.w.Add(p); addErr != nil {
				w.logger.Warn("Watch add failed", slog.String("path", p), logfields.Error(addErr))
			}
		}
		return nil
	})
}

// relevant reports whether ev should trigger a rebuild. New directories are
// added to the watch list as a side effect.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) || w.excluded(ev.Name) {
		return false
	}
	if _, ok := w.files[ev.Name]; ok {
		return true
	}
	for _, root := range w.roots {
		if within(ev.Name, root) {
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					w.addRecursive(ev.Name)
				}
			}
			return true
		}
	}
	return false
}

func (w *watcher) excluded(p string) bool {
	for _, ex := range w.exclude {
		if ex != "" && within(p, ex) {
			return true
		}
	}
	return false
}

func (w *watcher) Close() error { return w.w.Close() }

// within reports whether child is parent or lies below it.
func within(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// shouldIgnoreEvent reports editor and OS noise that must not trigger a
// rebuild.
func shouldIgnoreEvent(p string) bool {
	base := filepath.Base(p)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}

// debouncer coalesces bursts of triggers into one signal on C.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	C     chan struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, C: make(chan struct{}, 1)}
}

// Trigger restarts the quiet period.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.C <- struct{}{}:
		default:
		}
	})
}

// Stop cancels a pending signal.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
