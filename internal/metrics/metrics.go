// Package metrics records per-statement pipeline metrics and pushes them to a
// Prometheus Pushgateway at the end of a run.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder holds the collectors for one process run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	StatementDuration *prometheus.GaugeVec
	StatementRows     *prometheus.GaugeVec
	StatementFailures *prometheus.CounterVec
	LastSuccess       *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		StatementDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dwh_statement_duration_seconds",
			Help: "Wall time of the last execution of each pipeline statement",
		}, []string{"stage", "statement"}),
		StatementRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dwh_statement_rows_affected",
			Help: "Rows affected by the last execution of each pipeline statement",
		}, []string{"stage", "statement"}),
		StatementFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dwh_statement_failures_total",
			Help: "Number of failed pipeline statements",
		}, []string{"stage", "statement"}),
		LastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dwh_pipeline_last_success_timestamp_seconds",
			Help: "Unix time of the last successful pipeline run",
		}, []string{"pipeline"}),
	}
}

// ObserveStatement records the outcome of one statement.
func (r *Recorder) ObserveStatement(stage, statement string, elapsed time.Duration, rows int64, err error) {
	if r == nil {
		return
	}
	r.StatementDuration.WithLabelValues(stage, statement).Set(elapsed.Seconds())
	if err != nil {
		r.StatementFailures.WithLabelValues(stage, statement).Inc()
		return
	}
	r.StatementRows.WithLabelValues(stage, statement).Set(float64(rows))
}

// MarkSuccess stamps the completion time of a pipeline.
func (r *Recorder) MarkSuccess(pipeline string, at time.Time) {
	if r == nil {
		return
	}
	r.LastSuccess.WithLabelValues(pipeline).Set(float64(at.Unix()))
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Push replaces the metrics of job on the Pushgateway at url.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
