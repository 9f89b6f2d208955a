// Package metrics exports Prometheus collectors for extraction runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gobeaver/importkit"
)

const namespace = "importkit"

// Metrics holds the collectors for one registry.
type Metrics struct {
	Entries       prometheus.Counter
	Bytes         prometheus.Counter
	MediaRejected *prometheus.CounterVec
	Extractions   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Entries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_total",
			Help:      "Archive entries written by successful extractions.",
		}),
		Bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Uncompressed archive bytes processed by successful extractions.",
		}),
		MediaRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_rejected_total",
			Help:      "Media files deleted after failing validation, by category.",
		}, []string{"category"}),
		Extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Extraction runs by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.Entries, m.Bytes, m.MediaRejected, m.Extractions)
	}
	return m
}

// ObserveResult records a successful run.
func (m *Metrics) ObserveResult(res *importkit.ExtractionResult) {
	if res == nil {
		return
	}
	m.Extractions.WithLabelValues("success").Inc()
	m.Entries.Add(float64(res.FileCount))
	m.Bytes.Add(float64(res.TotalSize))
	for category, n := range res.Rejections {
		m.MediaRejected.WithLabelValues(category).Add(float64(n))
	}
}

// ObserveError records a failed run under its failure kind.
func (m *Metrics) ObserveError(err error) {
	if err == nil {
		return
	}
	m.Extractions.WithLabelValues(importkit.FailureKind(err)).Inc()
}

// Observe records whichever of res or err describes the run.
func (m *Metrics) Observe(res *importkit.ExtractionResult, err error) {
	if err != nil {
		m.ObserveError(err)
		return
	}
	m.ObserveResult(res)
}
