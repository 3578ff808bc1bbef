package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/scoring"
)

// Recorder holds the assessment metrics on a private registry. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	reg *prometheus.Registry

	responses   *prometheus.CounterVec
	completions *prometheus.CounterVec
	scores      *prometheus.HistogramVec
	snapshotErr *prometheus.CounterVec
	restarts    prometheus.Counter
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		responses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerfit_responses_total",
				Help: "Answers recorded, including replacements, by category",
			},
			[]string{"category"},
		),
		completions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerfit_assessments_completed_total",
				Help: "Completed assessments by recommendation tier",
			},
			[]string{"tier"},
		),
		scores: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "careerfit_score",
				Help:    "Distribution of computed scores",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
			[]string{"kind"},
		),
		snapshotErr: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerfit_snapshot_failures_total",
				Help: "Snapshot operations that failed",
			},
			[]string{"op"},
		),
		restarts: f.NewCounter(prometheus.CounterOpts{
			Name: "careerfit_restarts_total",
			Help: "Assessments restarted",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

func (r *Recorder) ObserveResponse(c catalog.Category) {
	if r == nil {
		return
	}
	r.responses.WithLabelValues(string(c)).Inc()
}

func (r *Recorder) ObserveCompletion(res scoring.Result) {
	if r == nil {
		return
	}
	r.completions.WithLabelValues(string(res.Recommendation)).Inc()
	r.scores.WithLabelValues("psychometric").Observe(res.PsychometricFit)
	r.scores.WithLabelValues("technical").Observe(res.TechnicalReadiness)
	r.scores.WithLabelValues("wiscar").Observe(res.WISCAR.Average())
	r.scores.WithLabelValues("overall").Observe(res.OverallScore)
	r.scores.WithLabelValues("confidence").Observe(res.ConfidenceScore)
}

func (r *Recorder) SnapshotFailure(op string) {
	if r == nil {
		return
	}
	r.snapshotErr.WithLabelValues(op).Inc()
}

func (r *Recorder) ObserveRestart() {
	if r == nil {
		return
	}
	r.restarts.Inc()
}

// WriteTextfile writes all metrics to path in the text exposition format,
// suitable for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
