package pipeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the Prometheus collectors of the orchestrator
type Metrics struct {
	Runs     *prometheus.CounterVec
	Stage    *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg when it is non-nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speech_insight",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		Stage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "speech_insight",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock time spent in each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}, []string{"stage"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "speech_insight",
			Subsystem: "pipeline",
			Name:      "runs_in_flight",
			Help:      "Pipeline runs currently executing.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.Stage, m.InFlight)
	}
	return m
}

const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeRejected  = "rejected"
)
