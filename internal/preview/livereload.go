package preview

import (
	"bufio"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// heartbeatInterval keeps idle event streams open through proxies.
const heartbeatInterval = 30 * time.Second

// Hub manages server-sent event clients and broadcasts build ids to them.
type Hub struct {
	mu      sync.Mutex
	nextID  int
	clients map[int]*hubClient
	closed  bool
	last    string
}

type hubClient struct {
	ch   chan string
	done chan struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: map[int]*hubClient{}}
}

// ServeHTTP implements the event stream endpoint.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "live reload shutting down", http.StatusServiceUnavailable)
		return
	}
	id := h.nextID
	h.nextID++
	client := &hubClient{ch: make(chan string, 8), done: make(chan struct{})}
	h.clients[id] = client
	current := h.last
	h.mu.Unlock()
	defer h.remove(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			slog.Debug("Live reload write failed", slog.String("error", err.Error()))
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(": connected\n\n") {
		return
	}
	if current != "" && !send(event(current)) {
		return
	}

	hb := time.NewTicker(heartbeatInterval)
	defer hb.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.done:
			return
		case <-hb.C:
			if !send(": ping\n\n") {
				return
			}
		case build := <-client.ch:
			if !send(event(build)) {
				return
			}
		}
	}
}

func event(build string) string {
	return "data: {\"build\":\"" + build + "\"}\n\n"
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
	}
}

// Broadcast sends build to every client. Clients that cannot keep up are
// dropped; repeated ids are ignored.
func (h *Hub) Broadcast(build string) {
	h.mu.Lock()
	if h.closed || build == "" || build == h.last {
		h.mu.Unlock()
		return
	}
	h.last = build
	snapshot := make(map[int]*hubClient, len(h.clients))
	for id, c := range h.clients {
		snapshot[id] = c
	}
	h.mu.Unlock()

	dropped := 0
	for id, c := range snapshot {
		select {
		case c.ch <- build:
		default:
			dropped++
			h.remove(id)
		}
	}
	slog.Debug("Live reload broadcast", slog.String("build", build), slog.Int("clients", len(snapshot)), slog.Int("dropped", dropped))
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Shutdown disconnects all clients and rejects new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*hubClient{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
}

// liveReloadScript reloads the page when a build id different from the first
// one seen arrives.
const liveReloadScript = `(() => {
  if (window.__folioLiveReload) return;
  window.__folioLiveReload = true;
  function connect() {
    const es = new EventSource('` + LiveReloadPath + `');
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.build; return; }
        if (p.build && p.build !== current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();
`
