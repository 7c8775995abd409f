package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "buildnative"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stepDuration  *prom.HistogramVec
	stepResults   *prom.CounterVec
	runDuration   prom.Histogram
	runOutcomes   *prom.CounterVec
	buildExitCode prom.Gauge
	artifactBytes prom.Gauge
	lastRun       prom.Gauge
}

// buildBuckets covers quick no-op rebuilds up to long full builds.
var buildBuckets = []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1200}

// NewPrometheusRecorder constructs the launcher metrics and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stepDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of launcher steps (build, copy)",
			Buckets:   buildBuckets,
		}, []string{"step"}),
		stepResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "step_results_total",
			Help:      "Launcher step results by outcome",
		}, []string{"step", "result"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total launcher run duration",
			Buckets:   buildBuckets,
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Launcher runs by final outcome",
		}, []string{"outcome"}),
		buildExitCode: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "build_exit_code",
			Help:      "Exit status of the most recent build tool invocation",
		}),
		artifactBytes: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "artifact_bytes",
			Help:      "Size of the most recently copied artifact",
		}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the most recent run finished",
		}),
	}
	reg.MustRegister(pr.stepDuration, pr.stepResults, pr.runDuration, pr.runOutcomes,
		pr.buildExitCode, pr.artifactBytes, pr.lastRun)
	return pr
}

func (p *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	if p == nil {
		return
	}
	p.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStepResult(step string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetBuildExitCode(code int) {
	if p == nil {
		return
	}
	p.buildExitCode.Set(float64(code))
}

func (p *PrometheusRecorder) SetArtifactBytes(n int64) {
	if p == nil {
		return
	}
	p.artifactBytes.Set(float64(n))
}

func (p *PrometheusRecorder) SetLastRun(t time.Time) {
	if p == nil {
		return
	}
	p.lastRun.Set(float64(t.Unix()))
}
