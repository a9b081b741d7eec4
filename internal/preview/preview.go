// Package preview serves a built site locally and rebuilds it when sources
// change.
package preview

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

const (
	defaultDebounce        = 300 * time.Millisecond
	defaultShutdownTimeout = 5 * time.Second
)

// BuildFunc runs one build and returns its id. A failed build still returns
// the id of its report when one was written.
type BuildFunc func(ctx context.Context) (string, error)

// Options configures Run.
type Options struct {
	// Addr is the listen address. Ignored when Listener is set.
	Addr     string
	Listener net.Listener

	OutputDir string
	// WatchDirs are watched recursively; WatchFiles individually.
	WatchDirs  []string
	WatchFiles []string

	Build      BuildFunc
	Metrics    http.Handler
	LiveReload bool
	Fs         afero.Fs
	Logger     *slog.Logger

	Debounce        time.Duration
	ShutdownTimeout time.Duration
}

// Run builds once, serves OutputDir, and rebuilds on source changes until ctx
// is done. A failed build keeps the previous output online.
func Run(ctx context.Context, opts Options) error {
	if opts.Build == nil {
		return errors.InternalError("preview requires a build function").Build()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	hub := NewHub()
	serverOpts := []ServerOption{WithServerLogger(logger), WithMetrics(opts.Metrics)}
	if opts.LiveReload {
		serverOpts = append(serverOpts, WithLiveReload(hub))
	}

	rebuild := func() {
		started := time.Now()
		id, err := opts.Build(ctx)
		ms := float64(time.Since(started).Microseconds()) / 1000
		if err != nil {
			logger.Warn("Rebuild finished with errors", logfields.DurationMS(ms), logfields.Error(err))
		} else {
			logger.Info("Rebuild finished", logfields.DurationMS(ms))
		}
		if id == "" {
			id = strconv.FormatInt(time.Now().UnixNano(), 10)
		}
		hub.Broadcast(id)
	}
	rebuild()
	srv := NewServer(fs, opts.OutputDir, serverOpts...)

	ln := opts.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", opts.Addr)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "failed to listen").
				WithContext("addr", opts.Addr).
				UserAction().
				Build()
		}
	}
	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	logger.Info("Preview server listening", slog.String("url", "http://"+ln.Addr().String()+"/"), logfields.Output(opts.OutputDir))

	w, err := newWatcher(opts.WatchDirs, opts.WatchFiles, []string{opts.OutputDir}, logger)
	if err != nil {
		_ = httpServer.Close()
		return err
	}
	defer func() { _ = w.Close() }()

	db := newDebouncer(debounce)
	defer db.Stop()

	for {
		select {
		case <-ctx.Done():
			return shutdown(httpServer, hub, shutdownTimeout, logger)
		case err, ok := <-serveErr:
			if !ok {
				serveErr = nil
				continue
			}
			return errors.WrapError(err, errors.CategoryRuntime, "preview server failed").Build()
		case ev, ok := <-w.w.Events:
			if !ok {
				return shutdown(httpServer, hub, shutdownTimeout, logger)
			}
			if w.relevant(ev) {
				logger.Debug("File change detected", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				db.Trigger()
			}
		case err, ok := <-w.w.Errors:
			if ok {
				logger.Warn("Watcher error", logfields.Error(err))
			}
		case <-db.C:
			logger.Info("Change detected, rebuilding site")
			rebuild()
			srv.Reload()
		}
	}
}

func shutdown(httpServer *http.Server, hub *Hub, timeout time.Duration, logger *slog.Logger) error {
	logger.Info("Shutting down preview server")
	hub.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "preview server shutdown failed").Build()
	}
	return nil
}
