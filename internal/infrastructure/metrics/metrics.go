// Package metrics expone métricas Prometheus del procesamiento de solicitudes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder interfaz que usa el manejador de mensajes.
type Recorder interface {
	ObserveOutcome(outcome string, duration time.Duration)
	RecordPublishFailure()
	IncInFlight()
	DecInFlight()
}

// Collector implementación Prometheus de Recorder.
type Collector struct {
	requests        *prometheus.CounterVec
	duration        prometheus.Histogram
	publishFailures prometheus.Counter
	inFlight        prometheus.Gauge
}

// NewCollector crea el Collector y registra sus métricas en reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registro_requests_total",
			Help: "Solicitudes procesadas por resultado (success, duplicate_user, store_error, decode_error).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "registro_request_duration_seconds",
			Help:    "Duración de decode + guardado + respuesta + ack.",
			Buckets: prometheus.DefBuckets,
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registro_reply_publish_failures_total",
			Help: "Respuestas que no se pudieron publicar.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "registro_inflight_requests",
			Help: "Solicitudes en proceso.",
		}),
	}
	reg.MustRegister(c.requests, c.duration, c.publishFailures, c.inFlight)
	return c
}

// ObserveOutcome cuenta la solicitud y registra su duración.
func (c *Collector) ObserveOutcome(outcome string, d time.Duration) {
	c.requests.WithLabelValues(outcome).Inc()
	c.duration.Observe(d.Seconds())
}

// RecordPublishFailure cuenta una respuesta perdida.
func (c *Collector) RecordPublishFailure() { c.publishFailures.Inc() }

func (c *Collector) IncInFlight() { c.inFlight.Inc() }
func (c *Collector) DecInFlight() { c.inFlight.Dec() }

// Handler devuelve el handler HTTP de scrape para gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
