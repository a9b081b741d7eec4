// Package metrics provides build metrics for folio.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	driver := site.NewDriver(cfg, rc, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The Prometheus recorder registers its collectors on the registry it is
// given. `folio build --metrics-file` writes that registry in the text
// exposition format after the build; `folio serve` exposes it over HTTP.
package metrics
