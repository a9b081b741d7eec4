package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/preview"
	"git.home.luguber.info/inful/folio/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr         string `short:"a" default:"127.0.0.1:1313" help:"Listen address"`
	Drafts       bool   `help:"Include documents marked as draft"`
	NoLiveReload bool   `name:"no-live-reload" help:"Do not reload browsers after rebuilds"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := g.setup(root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The registry outlives rebuilds so counters accumulate per session.
	recorder := metrics.NewPrometheusRecorder(nil)

	// Every rebuild rereads the configuration; the output directory and the
	// watch list stay those of the first load.
	build := func(ctx context.Context) (string, error) {
		current, loadErr := config.Load(root.Config)
		if loadErr != nil {
			return "", loadErr
		}
		if s.Drafts {
			current.Build.Drafts = true
		}
		current.Output.Directory = cfg.OutputDir()
		d, driverErr := newDriver(g, current, site.WithRecorder(recorder))
		if driverErr != nil {
			return "", driverErr
		}
		report, buildErr := d.Build(ctx)
		if report == nil {
			return "", buildErr
		}
		return report.BuildID, buildErr
	}

	return preview.Run(ctx, preview.Options{
		Addr:       s.Addr,
		OutputDir:  cfg.OutputDir(),
		WatchDirs:  []string{cfg.ContentDir(), cfg.StaticDir(), cfg.ResolvePath("layouts"), cfg.IconsDir()},
		WatchFiles: []string{absPath(root.Config)},
		Build:      build,
		Metrics:    metrics.HTTPHandler(recorder.Registry()),
		LiveReload: !s.NoLiveReload,
		Logger:     g.Logger,
	})
}
