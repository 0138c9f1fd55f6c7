// Package metrics records Prometheus metrics for chat turns and model calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the service's metric vectors. A nil Recorder is valid and
// records nothing, which keeps tests free of global registry collisions.
type Recorder struct {
	turnsTotal    *prometheus.CounterVec
	modelTotal    *prometheus.CounterVec
	modelDuration *prometheus.HistogramVec
}

// NewRecorder registers the metric vectors on the default registry. Call it
// once per process.
func NewRecorder() *Recorder {
	return &Recorder{
		turnsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_chat_turns_total",
				Help: "Chat turns processed, by outcome",
			},
			[]string{"status"},
		),
		modelTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_model_requests_total",
				Help: "Model completion calls, by purpose and outcome",
			},
			[]string{"purpose", "status"},
		),
		modelDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_model_request_duration_seconds",
				Help:    "Duration of model completion calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"purpose"},
		),
	}
}

// ObserveTurn counts one processed chat turn.
func (r *Recorder) ObserveTurn(status string) {
	if r == nil {
		return
	}
	r.turnsTotal.WithLabelValues(status).Inc()
}

// ObserveModelCall counts one completion call and its latency. purpose is
// "extraction" or "reply".
func (r *Recorder) ObserveModelCall(purpose, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.modelTotal.WithLabelValues(purpose, status).Inc()
	r.modelDuration.WithLabelValues(purpose).Observe(d.Seconds())
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
