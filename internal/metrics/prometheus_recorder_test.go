package metrics

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render", ResultSuccess)
	pr.IncDocument("posts", DocumentRendered)
	pr.IncDocument("posts", DocumentRendered)
	pr.IncDocument("works", DocumentFailed)
	pr.IncWarning("unrecognized_language")
	pr.IncBuildOutcome(BuildWarning)
	pr.SetRenderConcurrency(4)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
	for _, mf := range mfs {
		switch mf.GetName() {
		case "folio_documents_total":
			for _, m := range mf.GetMetric() {
				if labelValue(m.GetLabel(), "category") == "posts" && m.GetCounter().GetValue() != 2 {
					t.Fatalf("posts rendered = %v, want 2", m.GetCounter().GetValue())
				}
			}
		case "folio_render_concurrency":
			if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 4 {
				t.Fatalf("render concurrency = %v, want 4", got)
			}
		}
	}
}

func labelValue(labels []*dto.LabelPair, name string) string {
	for _, l := range labels {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildSuccess)

	path := filepath.Join(t.TempDir(), "folio.prom")
	if err := pr.WriteTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `folio_build_outcomes_total{outcome="success"} 1`) {
		t.Fatalf("unexpected textfile:\n%s", data)
	}
}

func TestHTTPHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncWarning("plugin")

	srv := httptest.NewServer(HTTPHandler(pr.Registry()))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "folio_warnings_total") {
		t.Fatalf("metrics body missing warnings counter:\n%s", body)
	}
}
