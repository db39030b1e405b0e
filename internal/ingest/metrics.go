package ingest

import (
	"github.com/prometheus/client_golang/prometheus"

	"scopedocs/internal/scope"
)

const (
	outcomeAdded   = "added"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

// Metrics counts ingested candidate files by namespace and outcome.
type Metrics struct {
	documents *prometheus.CounterVec
}

// NewMetrics registers the ingest counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scopedocs_ingest_documents_total",
				Help: "Candidate files processed by the ingest pipeline.",
			},
			[]string{"namespace", "outcome"},
		),
	}
	if err := reg.Register(m.documents); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(ns scope.Namespace, outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.documents.WithLabelValues(string(ns), outcome).Add(float64(n))
}
