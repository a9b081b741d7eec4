// Package site builds the static site: it walks the content store, renders
// every document, writes pages through the layouts, and adds listing pages,
// assets, and deployment descriptors.
package site

import (
	"context"
	stderrors "errors"
	"html/template"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/deploy"
	"git.home.luguber.info/inful/folio/internal/docmodel"
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/git"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/plugin"
	"git.home.luguber.info/inful/folio/internal/render"
	"git.home.luguber.info/inful/folio/internal/version"
)

// NotFoundFile is the 404 page, relative to the output directory.
const NotFoundFile = "404.html"

// LastModifier reports when a content file last changed.
type LastModifier interface {
	LastModified(contentPath string) (time.Time, bool)
}

// Driver runs builds for one configuration.
type Driver struct {
	cfg      *config.Config
	rc       *render.Configuration
	fs       afero.Fs
	recorder metrics.Recorder
	logger   *slog.Logger
	history  LastModifier
	layouts  *Layouts
	now      func() time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithFs sets the filesystem holding content, static files, and output.
func WithFs(fs afero.Fs) Option { return func(d *Driver) { d.fs = fs } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(d *Driver) { d.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(d *Driver) { d.logger = l } }

// WithHistory sets the last-modified source, overriding content.git_lastmod.
func WithHistory(h LastModifier) Option { return func(d *Driver) { d.history = h } }

// NewDriver prepares a driver. Layout overrides are read from the layouts
// directory next to the configuration file.
func NewDriver(cfg *config.Config, rc *render.Configuration, opts ...Option) (*Driver, error) {
	d := &Driver{
		cfg:      cfg,
		rc:       rc,
		fs:       afero.NewOsFs(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.history == nil && cfg.Content.GitLastmod {
		h, err := git.Open(cfg.ContentDir())
		if err != nil {
			d.logger.Warn("Git last-modified dates disabled", logfields.Error(err))
		} else {
			d.history = h
		}
	}

	layouts, err := LoadLayouts(d.fs, cfg.ResolvePath("layouts"), cfg.Site.BaseURL)
	if err != nil {
		return nil, err
	}
	d.layouts = layouts
	return d, nil
}

// candidate is a parsed document selected for rendering.
type candidate struct {
	entry     docmodel.Entry
	permalink string
}

// Build runs one complete build. The report is always returned and persisted;
// the error is non-nil when the build aborted or documents failed.
func (d *Driver) Build(ctx context.Context) (*Report, error) {
	report := newReport(d.recorder)
	if h, ok := d.history.(interface{ Head() string }); ok {
		report.Commit = h.Head()
	}
	logger := d.logger.With(logfields.BuildID(report.BuildID))
	outDir := d.cfg.OutputDir()

	logger.Info("Starting build",
		slog.String("content", d.cfg.ContentDir()),
		logfields.Output(outDir),
		slog.Int("jobs", d.cfg.Build.Jobs),
		slog.Any("plugins", d.rc.Plugins.Names()))

	err := d.run(ctx, report, logger)
	report.finish(ctx.Err() != nil)
	if persistErr := report.persist(d.fs, outDir); persistErr != nil && err == nil {
		err = persistErr
	}

	level := slog.LevelInfo
	if report.Outcome == OutcomeFailed || report.Outcome == OutcomeCanceled {
		level = slog.LevelError
	}
	logger.Log(ctx, level, "Build finished", slog.String("summary", report.Summary()))

	if err != nil {
		return report, err
	}
	return report, report.Err()
}

func (d *Driver) run(ctx context.Context, report *Report, logger *slog.Logger) error {
	outDir := d.cfg.OutputDir()
	if d.cfg.Output.Clean {
		if err := d.cleanOutput(outDir); err != nil {
			return err
		}
	}

	started := time.Now()
	store := NewStore(d.fs, d.cfg.ContentDir())
	inv, err := store.Scan()
	if err != nil {
		report.stage(StageScan, started, metrics.ResultFatal)
		return err
	}
	report.Documents = len(inv.Documents)
	report.stage(StageScan, started, metrics.ResultSuccess)

	started = time.Now()
	entries, err := d.parseAll(ctx, store, inv.Documents, report, logger)
	report.stage(StageParse, started, stageResult(err))
	if err != nil {
		return err
	}

	candidates, links, err := d.selectEntries(entries, report, logger)
	if err != nil {
		return err
	}

	started = time.Now()
	rendered, err := d.renderAll(ctx, candidates, links, report, logger)
	report.stage(StageRender, started, stageResult(err))
	if err != nil {
		return err
	}

	pages := d.planTags(rendered, report, logger)
	report.Tags = pages.Index.Len()
	site := d.siteData(rendered)

	started = time.Now()
	err = d.writeEntries(ctx, rendered, site, pages, report, logger)
	report.stage(StageWrite, started, stageResult(err))
	if err != nil {
		return err
	}

	started = time.Now()
	err = d.writeListings(ctx, rendered, site, pages, report)
	report.stage(StageListings, started, stageResult(err))
	if err != nil {
		return err
	}

	started = time.Now()
	err = d.copyAssets(ctx, store, inv.Assets, report)
	report.stage(StageAssets, started, stageResult(err))
	if err != nil {
		return err
	}

	started = time.Now()
	packaged, err := deploy.Package(ctx, d.fs, d.cfg.Deployment.Adapter, deploy.Site{
		OutputDir: outDir,
		Mode:      d.cfg.Output.Mode,
		BaseURL:   d.cfg.Site.BaseURL,
		CNAME:     d.cfg.Deployment.CNAME,
		Pages:     pagePermalinks(rendered),
		NotFound:  NotFoundFile,
	})
	report.stage(StagePackage, started, stageResult(err))
	report.Packaged = packaged
	return err
}

// forEach runs fn for 0..n-1 on the bounded pool. In fail-fast mode the first
// error cancels the remaining work; otherwise fn is expected to record
// per-item failures itself and only return cancellation errors.
func (d *Driver) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	jobs := d.cfg.Build.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	d.recorder.SetRenderConcurrency(jobs)

	p := pool.New().WithContext(ctx).WithMaxGoroutines(jobs)
	if d.cfg.Build.FailFast {
		p = p.WithCancelOnError().WithFirstError()
	}
	for i := 0; i < n; i++ {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, i)
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// fail records a document failure. It returns err in fail-fast mode so the
// pool aborts, nil otherwise.
func (d *Driver) fail(report *Report, logger *slog.Logger, stage, path string, err error) error {
	line := 0
	if ce, ok := errors.AsClassified(err); ok {
		_, line = ce.Location()
	}
	logger.Error("Skipping document",
		logfields.Stage(stage),
		logfields.Document(path),
		logfields.Line(line),
		logfields.Error(err))
	report.addIssue(stage, err)
	report.documentFailed(string(docmodel.CategoryFromPath(path)))
	if d.cfg.Build.FailFast {
		return err
	}
	return nil
}

func (d *Driver) parseAll(ctx context.Context, store *Store, paths []string, report *Report, logger *slog.Logger) ([]docmodel.Entry, error) {
	entries := make([]docmodel.Entry, len(paths))
	err := d.forEach(ctx, len(paths), func(_ context.Context, i int) error {
		p := paths[i]
		content, err := store.Read(p)
		if err != nil {
			return d.fail(report, logger, StageParse, p, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
				WithContext("path", p).
				Build())
		}
		doc, err := docmodel.Parse(p, content)
		if err != nil {
			return d.fail(report, logger, StageParse, p, err)
		}
		entry, err := docmodel.Resolve(doc)
		if err != nil {
			return d.fail(report, logger, StageParse, p, err)
		}
		entries[i] = entry
		return nil
	})
	return entries, err
}

// selectEntries drops drafts and assigns permalinks in path order. A
// permalink already taken, or one under /tags/, fails the later document.
func (d *Driver) selectEntries(entries []docmodel.Entry, report *Report, logger *slog.Logger) ([]candidate, permalinkIndex, error) {
	links := permalinkIndex{}
	owners := map[string]string{}
	var out []candidate

	for _, e := range entries {
		if e == nil {
			continue
		}
		doc := e.Document()
		if e.Common().Draft && !d.cfg.Build.Drafts {
			report.documentDraft(string(doc.Category()))
			logger.Debug("Skipping draft", logfields.Document(doc.Path()))
			continue
		}

		permalink := Permalink(doc.Path(), e.Common().Slug)
		var conflict string
		if other, taken := owners[permalink]; taken {
			conflict = other
		} else if strings.HasPrefix(permalink, "/tags/") {
			conflict = "tag pages"
		}
		if conflict != "" {
			err := errors.DocumentError("permalink collision").
				At(doc.Path(), 1).
				WithContext("permalink", permalink).
				WithContext("detail", "already used by "+conflict).
				Build()
			if failErr := d.fail(report, logger, StageParse, doc.Path(), err); failErr != nil {
				return nil, nil, failErr
			}
			continue
		}

		owners[permalink] = doc.Path()
		links[doc.Path()] = permalink
		out = append(out, candidate{entry: e, permalink: permalink})
	}
	return out, links, nil
}

func (d *Driver) renderAll(ctx context.Context, candidates []candidate, links permalinkIndex, report *Report, logger *slog.Logger) ([]*renderedEntry, error) {
	results := make([]*renderedEntry, len(candidates))
	err := d.forEach(ctx, len(candidates), func(_ context.Context, i int) error {
		c := candidates[i]
		doc := c.entry.Document()
		display, err := d.rc.Render(doc, render.Environment{
			Permalink: c.permalink,
			Links:     links,
			Logger:    logger,
		})
		if err != nil {
			return d.fail(report, logger, StageRender, doc.Path(), err)
		}
		for _, w := range display.Warnings {
			report.addIssue(StageRender, w)
		}

		r := &renderedEntry{entry: c.entry, permalink: c.permalink, display: display}
		if d.history != nil {
			r.lastModified, _ = d.history.LastModified(doc.Path())
		}
		results[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (d *Driver) siteData(rendered []*renderedEntry) *SiteData {
	site := &SiteData{
		Title:       d.cfg.Site.Title,
		BaseURL:     d.cfg.Site.BaseURL,
		Description: d.cfg.Site.Description,
		Author:      d.cfg.Site.Author,
		Language:    d.cfg.Site.Language,
		Version:     version.Version,
		Year:        d.now().Year(),
	}
	present := map[docmodel.Category]bool{}
	for _, r := range rendered {
		if r.permalink != categoryPermalink(r.category()) {
			present[r.category()] = true
		}
	}
	for _, c := range docmodel.ListingCategories {
		if present[c] {
			site.Menu = append(site.Menu, MenuItem{Label: Label(string(c)), Permalink: categoryPermalink(c)})
		}
	}
	return site
}

// isIntro reports whether r provides the content of a listing page instead
// of a page of its own.
func isIntro(r *renderedEntry) bool {
	return introPermalink(r.category(), r.permalink)
}

// introPermalink reports whether a document published at permalink is the
// intro of the home page or of its category listing.
func introPermalink(c docmodel.Category, permalink string) bool {
	return permalink == "/" || (c.Listed() && permalink == categoryPermalink(c))
}

// planTags indexes the tags of every listed document and assigns tag pages.
// Intro documents are part of a listing, not listed themselves, so their
// tags are not counted.
func (d *Driver) planTags(rendered []*renderedEntry, report *Report, logger *slog.Logger) *TagPages {
	listed := lo.FilterMap(rendered, func(r *renderedEntry, _ int) (docmodel.Entry, bool) {
		return r.entry, !isIntro(r)
	})
	reserved := lo.SliceToMap(rendered, func(r *renderedEntry) (string, struct{}) {
		return r.permalink, struct{}{}
	})
	pages, collisions := planTagPages(listed, reserved)
	for _, err := range collisions {
		logger.Warn("Skipping tag page", logfields.Error(err))
		report.addIssue(StageListings, err)
	}
	return pages
}

func (d *Driver) writeEntries(ctx context.Context, rendered []*renderedEntry, site *SiteData, pages *TagPages, report *Report, logger *slog.Logger) error {
	return d.forEach(ctx, len(rendered), func(ctx context.Context, i int) error {
		r := rendered[i]
		path := r.path()
		if isIntro(r) {
			report.documentRendered(string(r.category()))
			return nil
		}

		layout := d.layoutFor(r, report, logger)
		data := d.entryPage(r, site, pages)
		data.Kind = layout
		if err := d.writePage(ctx, layout, data, report); err != nil {
			return d.fail(report, logger, StageWrite, path, errors.WrapError(err, errors.CategoryBuild, "failed to write page").
				WithContext("path", path).
				WithContext("permalink", r.permalink).
				Build())
		}
		report.documentRendered(string(r.category()))
		return nil
	})
}

// layoutFor picks the front matter layout when it exists, then a layout
// named after the category, then single.
func (d *Driver) layoutFor(r *renderedEntry, report *Report, logger *slog.Logger) string {
	if name := r.entry.Common().Layout; name != "" {
		if d.layouts.Has(name) {
			return name
		}
		logger.Warn("Unknown layout, using default", logfields.Document(r.path()), logfields.Layout(name))
		report.addIssue(StageWrite, errors.RenderError("unknown layout").
			Warning().
			WithContext("path", r.path()).
			WithContext("detail", name).
			Build())
	}
	if d.layouts.Has(string(r.category())) {
		return string(r.category())
	}
	return LayoutSingle
}

func (d *Driver) entryPage(r *renderedEntry, site *SiteData, pages *TagPages) *PageData {
	c := r.entry.Common()
	data := &PageData{
		Site:         site,
		Kind:         LayoutSingle,
		Title:        c.Title,
		Permalink:    r.permalink,
		Category:     string(r.category()),
		Summary:      r.display.Summary,
		Content:      template.HTML(r.display.HTML), // #nosec G203 -- rendered by goldmark from site-owned content
		Meta:         entryMeta(r.entry),
		Tags:         tagLinks(c.Tags, pages),
		Headings:     r.display.Headings,
		LastModified: r.lastModified,
		Params:       r.entry.Document().FrontMatter(),
	}
	if r.category().Listed() {
		data.Section = categoryPermalink(r.category())
	}
	return data
}

func (d *Driver) writePage(ctx context.Context, layout string, data *PageData, report *Report) error {
	html, err := d.layouts.Execute(layout, data)
	if err != nil {
		return err
	}
	if err := d.writeArtifact(ctx, OutputFile(data.Permalink), html); err != nil {
		return err
	}
	report.mu.Lock()
	report.Pages++
	report.mu.Unlock()
	return nil
}

// writeArtifact writes rel below the output directory and hands the file to
// the artifact plugins.
func (d *Driver) writeArtifact(ctx context.Context, rel string, data []byte) error {
	target := filepath.Join(d.cfg.OutputDir(), filepath.FromSlash(rel))
	if err := d.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(target)).
			Build()
	}
	// #nosec G306 -- published files are world-readable
	if err := afero.WriteFile(d.fs, target, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output file").
			WithContext("path", target).
			Build()
	}
	return d.rc.Plugins.ProcessArtifact(ctx, plugin.Artifact{Fs: d.fs, Path: target, Content: data})
}

// cleanOutput removes the output directory unless it would take sources
// with it.
func (d *Driver) cleanOutput(outDir string) error {
	for _, protected := range []string{d.cfg.BaseDir(), d.cfg.ContentDir(), d.cfg.StaticDir()} {
		if protected == "" {
			continue
		}
		if within(protected, outDir) {
			return errors.ConfigError("refusing to clean output directory that contains site sources").
				WithContext("path", outDir).
				WithContext("protected", protected).
				UserAction().
				Build()
		}
	}
	if err := d.fs.RemoveAll(outDir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
			WithContext("path", outDir).
			Build()
	}
	return nil
}

// within reports whether child is parent or lies below it.
func within(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func stageResult(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return metrics.ResultCanceled
	default:
		return metrics.ResultFatal
	}
}

func categoryPermalink(c docmodel.Category) string {
	return "/" + string(c) + "/"
}

func pagePermalinks(rendered []*renderedEntry) []string {
	out := []string{"/", "/tags/"}
	for _, r := range rendered {
		if !isIntro(r) {
			out = append(out, r.permalink)
		}
	}
	return out
}
