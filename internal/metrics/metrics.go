// Package metrics exposes Prometheus collectors for pipeline operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels operations that returned a result.
	OutcomeSuccess = "success"
	// OutcomeError labels operations that returned an error.
	OutcomeError = "error"
)

const namespace = "statlens"

// Recorder holds the collectors for one process.
type Recorder struct {
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	datasetRows prometheus.Gauge
	accuracy    *prometheus.GaugeVec
	warnings    prometheus.Counter
}

// New builds an unregistered Recorder.
func New() *Recorder {
	return &Recorder{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Pipeline operations handled, partitioned by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_seconds",
				Help:      "Pipeline operation latency in seconds.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the most recently loaded dataset.",
		}),
		accuracy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "classifier_accuracy",
				Help:      "Test-set accuracy of the most recent model, by kernel.",
			},
			[]string{"kernel"},
		),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Non-fatal warnings reported to users.",
		}),
	}
}

// Register attaches the collectors to reg. Collectors already registered are
// skipped.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		r.operations,
		r.duration,
		r.datasetRows,
		r.accuracy,
		r.warnings,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// Observe records one operation's duration and outcome.
func (r *Recorder) Observe(op string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	r.operations.WithLabelValues(op, outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	r.duration.WithLabelValues(op).Observe(duration.Seconds())
}

// DatasetLoaded records the row count of a loaded dataset and its warnings.
func (r *Recorder) DatasetLoaded(rows, warnings int) {
	if r == nil {
		return
	}
	r.datasetRows.Set(float64(rows))
	r.warnings.Add(float64(warnings))
}

// ModelEvaluated records a classifier's accuracy.
func (r *Recorder) ModelEvaluated(kernel string, accuracy float64) {
	if r == nil {
		return
	}
	r.accuracy.WithLabelValues(kernel).Set(accuracy)
}

// WriteTextfile registers r with a fresh registry and writes it to path in the
// node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	reg := prometheus.NewRegistry()
	if err := r.Register(reg); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, reg)
}
