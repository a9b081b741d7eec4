package preview

import (
	"bytes"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/deploy"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

// Reserved paths. Site content never lives under /__folio/.
const (
	LiveReloadPath       = "/__folio/livereload"
	LiveReloadScriptPath = "/__folio/livereload.js"
	MetricsPath          = "/__folio/metrics"
)

// defaultNotFound is served when the output has no 404 page.
const defaultNotFound = "404.html"

// Server serves a build output directory.
type Server struct {
	fs         afero.Fs
	root       string
	hub        *Hub
	metrics    http.Handler
	liveReload bool
	logger     *slog.Logger

	mu       sync.RWMutex
	headers  map[string]string
	notFound string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLiveReload injects the reload script into HTML pages and exposes the
// event stream of hub.
func WithLiveReload(hub *Hub) ServerOption {
	return func(s *Server) {
		s.hub = hub
		s.liveReload = hub != nil
	}
}

// WithMetrics exposes h at MetricsPath.
func WithMetrics(h http.Handler) ServerOption { return func(s *Server) { s.metrics = h } }

// WithServerLogger sets the logger.
func WithServerLogger(l *slog.Logger) ServerOption { return func(s *Server) { s.logger = l } }

// NewServer returns a server for root on fs.
func NewServer(fs afero.Fs, root string, opts ...ServerOption) *Server {
	s := &Server{fs: fs, root: root, logger: slog.Default(), notFound: defaultNotFound}
	for _, opt := range opts {
		opt(s)
	}
	s.Reload()
	return s
}

// Reload rereads the server manifest written by the node adapter. Without a
// manifest the server uses its defaults.
func (s *Server) Reload() {
	m, err := deploy.ReadServerManifest(s.fs, s.root)
	if err != nil {
		s.logger.Warn("Ignoring unreadable server manifest", logfields.Output(s.root), logfields.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers = nil
	s.notFound = defaultNotFound
	if m != nil {
		s.headers = m.Headers
		if m.NotFound != "" {
			s.notFound = m.NotFound
		}
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveSite)
	if s.liveReload {
		mux.Handle(LiveReloadPath, s.hub)
		mux.HandleFunc(LiveReloadScriptPath, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			_, _ = io.WriteString(w, liveReloadScript)
		})
	}
	if s.metrics != nil {
		mux.Handle(MetricsPath, s.metrics)
	}
	return mux
}

func (s *Server) serveSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	upath := path.Clean("/" + r.URL.Path)
	name := filepath.Join(s.root, filepath.FromSlash(upath))
	fi, err := s.fs.Stat(name)
	if err == nil && fi.IsDir() {
		if !strings.HasSuffix(r.URL.Path, "/") {
			target := &url.URL{Path: strings.TrimSuffix(upath, "/") + "/"}
			http.Redirect(w, r, target.EscapedPath(), http.StatusMovedPermanently)
			return
		}
		name = filepath.Join(name, "index.html")
		fi, err = s.fs.Stat(name)
	}
	if err != nil || fi.IsDir() {
		s.serveNotFound(w, r)
		return
	}
	s.serveFile(w, r, name, fi, http.StatusOK)
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	page := s.notFound
	s.mu.RUnlock()

	name := filepath.Join(s.root, filepath.FromSlash(page))
	fi, err := s.fs.Stat(name)
	if err != nil || fi.IsDir() {
		s.setHeaders(w)
		http.NotFound(w, r)
		return
	}
	s.serveFile(w, r, name, fi, http.StatusNotFound)
}

// serveFile writes name with status. HTML is buffered so the reload script
// can be injected; other files prefer a precompressed sibling the client
// accepts.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, name string, fi os.FileInfo, status int) {
	s.setHeaders(w)
	ctype := mime.TypeByExtension(filepath.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	isHTML := strings.HasPrefix(ctype, "text/html")

	if status != http.StatusOK || (isHTML && s.liveReload) {
		data, err := afero.ReadFile(s.fs, name)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if isHTML && s.liveReload {
			data = injectScript(data)
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(status)
		if r.Method != http.MethodHead {
			_, _ = w.Write(data)
		}
		return
	}

	w.Header().Add("Vary", "Accept-Encoding")
	if enc, sibling, ok := s.precompressed(r, name); ok {
		name = sibling
		w.Header().Set("Content-Encoding", enc)
		if st, err := s.fs.Stat(sibling); err == nil {
			fi = st
		}
	}

	f, err := s.fs.Open(name)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()
	http.ServeContent(w, r, "", fi.ModTime(), f)
}

// precompressed picks a .br or .gz sibling of name the client accepts.
func (s *Server) precompressed(r *http.Request, name string) (encoding, sibling string, ok bool) {
	accept := r.Header.Get("Accept-Encoding")
	for _, c := range []struct{ enc, ext string }{{"br", ".br"}, {"gzip", ".gz"}} {
		if !acceptsEncoding(accept, c.enc) {
			continue
		}
		if exists, _ := afero.Exists(s.fs, name+c.ext); exists {
			return c.enc, name + c.ext, true
		}
	}
	return "", "", false
}

func acceptsEncoding(header, enc string) bool {
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(fields[0]), enc) {
			continue
		}
		for _, p := range fields[1:] {
			if q := strings.TrimSpace(p); q == "q=0" || q == "q=0.0" {
				return false
			}
		}
		return true
	}
	return false
}

func (s *Server) setHeaders(w http.ResponseWriter) {
	s.mu.RLock()
	for k, v := range s.headers {
		w.Header().Set(k, v)
	}
	s.mu.RUnlock()
	w.Header().Set("Cache-Control", "no-cache, must-revalidate")
}

func injectScript(html []byte) []byte {
	tag := []byte(`<script async src="` + LiveReloadScriptPath + `"></script></body>`)
	if i := bytes.LastIndex(html, []byte("</body>")); i >= 0 {
		out := make([]byte, 0, len(html)+len(tag))
		out = append(out, html[:i]...)
		out = append(out, tag...)
		return append(out, html[i+len("</body>"):]...)
	}
	return append(html, tag[:len(tag)-len("</body>")]...)
}
