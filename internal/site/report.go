package site

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/version"
)

// ReportFile is written to the output directory after every build.
const ReportFile = "build-report.json"

// Stage names, in execution order.
const (
	StageScan     = "scan"
	StageParse    = "parse"
	StageRender   = "render"
	StageWrite    = "write"
	StageListings = "listings"
	StageAssets   = "assets"
	StagePackage  = "package"
)

// BuildOutcome is the final result state of a build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// IssueSeverity is the normalized severity of a report issue.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is one problem recorded during a build.
type ReportIssue struct {
	Stage    string        `json:"stage"`
	Severity IssueSeverity `json:"severity"`
	Category string        `json:"category"`
	Path     string        `json:"path,omitempty"`
	Line     int           `json:"line,omitempty"`
	Message  string        `json:"message"`
}

// Report summarizes a build. It is safe for concurrent use while the build
// runs and read-only after Build returns.
type Report struct {
	mu sync.Mutex

	BuildID        string                   `json:"build_id"`
	Version        string                   `json:"version"`
	Commit         string                   `json:"commit,omitempty"`
	Start          time.Time                `json:"start"`
	End            time.Time                `json:"end"`
	Documents      int                      `json:"documents"`
	Rendered       int                      `json:"rendered"`
	Drafts         int                      `json:"drafts"`
	Failed         int                      `json:"failed"`
	Warnings       int                      `json:"warnings"`
	Pages          int                      `json:"pages"`
	Assets         int                      `json:"assets"`
	Tags           int                      `json:"tags"`
	StageDurations map[string]time.Duration `json:"stage_durations"`
	Outcome        BuildOutcome             `json:"outcome"`
	Issues         []ReportIssue            `json:"issues"`
	Packaged       []string                 `json:"packaged,omitempty"`

	recorder metrics.Recorder
}

func newReport(recorder metrics.Recorder) *Report {
	return &Report{
		BuildID:        uuid.NewString(),
		Version:        version.Version,
		Start:          time.Now(),
		StageDurations: map[string]time.Duration{},
		Issues:         []ReportIssue{},
		recorder:       recorder,
	}
}

// addIssue records err as an issue of stage. Classified errors contribute
// their category, severity, path, and line.
func (r *Report) addIssue(stage string, err error) {
	issue := ReportIssue{Stage: stage, Severity: SeverityError, Category: string(errors.CategoryInternal), Message: err.Error()}
	if ce, ok := errors.AsClassified(err); ok {
		issue.Category = string(ce.Category())
		issue.Message = ce.Message()
		if detail, ok := ce.Context().GetString("detail"); ok {
			issue.Message = fmt.Sprintf("%s: %s", issue.Message, detail)
		} else if cause := ce.Cause(); cause != nil {
			issue.Message = fmt.Sprintf("%s: %v", issue.Message, cause)
		}
		if ce.IsWarning() {
			issue.Severity = SeverityWarning
		}
		issue.Path, issue.Line = ce.Location()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Issues = append(r.Issues, issue)
	if issue.Severity == SeverityWarning {
		r.Warnings++
		r.recorder.IncWarning(issue.Category)
	}
}

func (r *Report) documentFailed(category string) {
	r.mu.Lock()
	r.Failed++
	r.mu.Unlock()
	r.recorder.IncDocument(category, metrics.DocumentFailed)
}

func (r *Report) documentRendered(category string) {
	r.mu.Lock()
	r.Rendered++
	r.mu.Unlock()
	r.recorder.IncDocument(category, metrics.DocumentRendered)
}

func (r *Report) documentDraft(category string) {
	r.mu.Lock()
	r.Drafts++
	r.mu.Unlock()
	r.recorder.IncDocument(category, metrics.DocumentDraft)
}

func (r *Report) stage(name string, started time.Time, result metrics.ResultLabel) {
	d := time.Since(started)
	r.mu.Lock()
	r.StageDurations[name] += d
	r.mu.Unlock()
	r.recorder.ObserveStageDuration(name, d)
	r.recorder.IncStageResult(name, result)
}

// finish stamps the end time and derives the outcome.
func (r *Report) finish(canceled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.End = time.Now()
	sort.SliceStable(r.Issues, func(i, j int) bool {
		if r.Issues[i].Path != r.Issues[j].Path {
			return r.Issues[i].Path < r.Issues[j].Path
		}
		return r.Issues[i].Line < r.Issues[j].Line
	})
	switch {
	case canceled:
		r.Outcome = OutcomeCanceled
	case r.Failed > 0:
		r.Outcome = OutcomeFailed
	case r.Warnings > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
	r.recorder.ObserveBuildDuration(r.End.Sub(r.Start))
	r.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(r.Outcome))
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("documents=%d rendered=%d drafts=%d failed=%d warnings=%d pages=%d assets=%d tags=%d duration=%s outcome=%s",
		r.Documents, r.Rendered, r.Drafts, r.Failed, r.Warnings, r.Pages, r.Assets, r.Tags,
		r.End.Sub(r.Start).Truncate(time.Millisecond), r.Outcome)
}

// Err returns a build error when documents failed, otherwise nil.
func (r *Report) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return errors.BuildError("build completed with failed documents").
		WithContext("failed", r.Failed).
		WithContext("rendered", r.Rendered).
		WithContext("build_id", r.BuildID).
		Build()
}

// persist writes the report as JSON into dir.
func (r *Report) persist(fs afero.Fs, dir string) error {
	r.mu.Lock()
	data, err := json.MarshalIndent(r, "", "  ")
	r.mu.Unlock()
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal build report").Build()
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").WithContext("path", dir).Build()
	}
	target := filepath.Join(dir, ReportFile)
	tmp := target + ".tmp"
	if err := afero.WriteFile(fs, tmp, append(data, '\n'), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write build report").WithContext("path", tmp).Build()
	}
	if err := fs.Rename(tmp, target); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write build report").WithContext("path", target).Build()
	}
	return nil
}
