// Package metrics records pipeline observations in a private Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/plume/internal/core/ports"
)

const namespace = "plume"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus implements ports.Metrics.
type Prometheus struct {
	registry      *prom.Registry
	taskDuration  *prom.HistogramVec
	taskResults   *prom.CounterVec
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	reloads       *prom.CounterVec
	clients       prom.Gauge
}

// NewPrometheus creates the collectors and registers them on a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prom.NewRegistry(),
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of asset task runs",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		taskResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "task_results_total",
			Help:      "Asset task runs by outcome",
		}, []string{"kind", "result"}),
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"kind", "stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Pipeline stage runs by outcome",
		}, []string{"kind", "stage", "result"}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reload_broadcasts_total",
			Help:      "Live reload events sent to browsers",
		}, []string{"kind", "mode"}),
		clients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Connected live reload clients",
		}),
	}

	p.registry.MustRegister(p.taskDuration, p.taskResults, p.stageDuration, p.stageResults, p.reloads, p.clients)
	return p
}

// Registry returns the registry holding every plume collector.
func (p *Prometheus) Registry() *prom.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// ObserveTask records a finished task run.
func (p *Prometheus) ObserveTask(kind string, d time.Duration, failed bool) {
	p.taskDuration.WithLabelValues(kind).Observe(d.Seconds())
	p.taskResults.WithLabelValues(kind, result(failed)).Inc()
}

// ObserveStage records a finished stage.
func (p *Prometheus) ObserveStage(kind, stage string, d time.Duration, failed bool) {
	p.stageDuration.WithLabelValues(kind, stage).Observe(d.Seconds())
	p.stageResults.WithLabelValues(kind, stage, result(failed)).Inc()
}

// ObserveReload records a broadcast reload event.
func (p *Prometheus) ObserveReload(kind, mode string) {
	p.reloads.WithLabelValues(kind, mode).Inc()
}

// SetClients records the number of connected live reload clients.
func (p *Prometheus) SetClients(n int) {
	p.clients.Set(float64(n))
}

func result(failed bool) string {
	if failed {
		return "failed"
	}
	return "success"
}
