package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/render"
	"git.home.luguber.info/inful/folio/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
	Drafts      bool   `help:"Include documents marked as draft"`
	FailFast    bool   `name:"fail-fast" help:"Abort on the first failing document"`
	Jobs        int    `short:"j" help:"Documents rendered in parallel (0 keeps build.jobs)"`
	Clean       bool   `help:"Remove the output directory before building"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := g.setup(root)
	if err != nil {
		return err
	}
	b.apply(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if b.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	report, err := runBuild(ctx, g, cfg, recorder)
	if report != nil {
		fmt.Fprintf(g.out(), "Build %s: %s\n", report.Outcome, report.Summary())
	}
	if prom != nil {
		if werr := prom.WriteTextfile(b.MetricsFile); werr != nil {
			g.Logger.Warn("Failed to write metrics file", "path", b.MetricsFile, "error", werr)
			if err == nil {
				err = errors.WrapError(werr, errors.CategoryFileSystem, "failed to write metrics file").
					WithContext("path", b.MetricsFile).
					Build()
			}
		}
	}
	return err
}

func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Output != "" {
		cfg.Output.Directory = absPath(b.Output)
	}
	if b.Drafts {
		cfg.Build.Drafts = true
	}
	if b.FailFast {
		cfg.Build.FailFast = true
	}
	if b.Jobs > 0 {
		cfg.Build.Jobs = b.Jobs
	}
	if b.Clean {
		cfg.Output.Clean = true
	}
}

// runBuild wires the render configuration and driver for one build.
func runBuild(ctx context.Context, g *Global, cfg *config.Config, recorder metrics.Recorder) (*site.Report, error) {
	d, err := newDriver(g, cfg, site.WithRecorder(recorder))
	if err != nil {
		return nil, err
	}
	return d.Build(ctx)
}

func newDriver(g *Global, cfg *config.Config, opts ...site.Option) (*site.Driver, error) {
	rc, err := render.FromConfig(cfg, afero.NewOsFs())
	if err != nil {
		return nil, err
	}
	opts = append([]site.Option{site.WithLogger(g.Logger)}, opts...)
	return site.NewDriver(cfg, rc, opts...)
}
