// Package metrics expone los contadores Prometheus del motor de análisis.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	predictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "analysis",
		Name:      "predictions_total",
		Help:      "Illness risk predictions by prediction path and verdict.",
	}, []string{"mode", "risk"})

	trainingRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "analysis",
		Name:      "training_runs_total",
		Help:      "Training runs by outcome (accepted, insufficient_data, single_class, below_quality, error).",
	}, []string{"outcome"})

	retrainScheduled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "analysis",
		Name:      "retrain_scheduled_total",
		Help:      "Background retrain requests by scheduling result (queued, cooldown, queue_full).",
	}, []string{"result"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "analysis",
		Name:      "request_duration_seconds",
		Help:      "Duration of analysis entry points.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

func init() {
	prometheus.MustRegister(predictions, trainingRuns, retrainScheduled, requestDuration)
}

func ObservePrediction(mode, risk string) {
	predictions.WithLabelValues(mode, risk).Inc()
}

func ObserveTraining(outcome string) {
	trainingRuns.WithLabelValues(outcome).Inc()
}

func ObserveRetrainScheduled(result string) {
	retrainScheduled.WithLabelValues(result).Inc()
}

// Since registra la duración desde start. Uso: defer metrics.Since("analyze", time.Now())
func Since(operation string, start time.Time) {
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
