// Package metrics records launcher run metrics.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default so the launcher never needs nil checks; PrometheusRecorder is
// swapped in when a textfile or listen address is configured:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	l := launcher.New(lay, launcher.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(path, reg)
//
// The textfile format is the one node_exporter's textfile collector reads.
package metrics
