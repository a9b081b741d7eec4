package metrics

import "testing"

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncDocument("posts", DocumentRendered)
	r.IncBuildOutcome(BuildSuccess)

	var _ Recorder = (*PrometheusRecorder)(nil)
}
