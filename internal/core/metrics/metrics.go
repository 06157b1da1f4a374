// Package metrics expone contadores Prometheus del pipeline de evidencias.
// Un *Metrics nil es válido: todas las operaciones son no-op.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics agrupa los colectores registrados en un Registerer.
type Metrics struct {
	lookups          *prometheus.CounterVec
	classifications  *prometheus.CounterVec
	providerCalls    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
}

// New registra los colectores en reg. Con reg nil devuelve nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)
	return &Metrics{
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evidence_lookups_total",
				Help: "External enrichment lookups by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		classifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evidence_classifications_total",
				Help: "Classifications by the stage that produced the label",
			},
			[]string{"stage"},
		),
		providerCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evidence_provider_calls_total",
				Help: "Generative-model provider calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		analysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "evidence_analysis_duration_seconds",
				Help:    "Wall time of a full pipeline run",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// ObserveLookup cuenta una consulta externa (dns, host, whois, rdap, asn, ptr).
func (m *Metrics) ObserveLookup(kind string, err error) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(kind, outcome(err)).Inc()
}

// ObserveClassification cuenta una clasificación por etapa (rules, provider, default).
func (m *Metrics) ObserveClassification(stage string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(stage).Inc()
}

// ObserveProvider cuenta una llamada a un proveedor generativo.
func (m *Metrics) ObserveProvider(provider string, err error) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(provider, outcome(err)).Inc()
}

// ObserveAnalysis registra la duración de un análisis completo.
func (m *Metrics) ObserveAnalysis(d time.Duration) {
	if m == nil {
		return
	}
	m.analysisDuration.Observe(d.Seconds())
}
