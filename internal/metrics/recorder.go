package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// DocumentResult is the fate of one content document in a build.
type DocumentResult string

const (
	DocumentRendered DocumentResult = "rendered"
	DocumentDraft    DocumentResult = "draft"
	DocumentFailed   DocumentResult = "failed"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildSuccess  BuildOutcomeLabel = "success"
	BuildWarning  BuildOutcomeLabel = "warning"
	BuildFailed   BuildOutcomeLabel = "failed"
	BuildCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for build and stage metrics.
// Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncDocument(category string, result DocumentResult)
	IncWarning(kind string)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetRenderConcurrency(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncDocument(string, DocumentResult)         {}
func (NoopRecorder) IncWarning(string)                          {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) SetRenderConcurrency(int)                   {}
