package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spacesedan/sentiboard/internal/models"
)

// Metrics implements sentiment.Observer.
type Metrics struct {
	remoteCalls    *prometheus.CounterVec
	callDuration   prometheus.Histogram
	chunkSize      prometheus.Histogram
	documentsTotal *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		remoteCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiboard_remote_calls_total",
				Help: "Total number of sentiment classification calls by outcome",
			},
			[]string{"outcome"},
		),
		callDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sentiboard_remote_call_duration_seconds",
				Help:    "Time taken by one sentiment classification call",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		chunkSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sentiboard_chunk_size",
				Help:    "Number of documents sent per classification call",
				Buckets: []float64{1, 2, 5, 10, 25},
			},
		),
		documentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiboard_documents_total",
				Help: "Total number of analyzed documents by resulting label",
			},
			[]string{"label"},
		),
	}

	reg.MustRegister(m.remoteCalls, m.callDuration, m.chunkSize, m.documentsTotal)
	return m
}

func (m *Metrics) ObserveCall(documents int, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.remoteCalls.WithLabelValues(outcome).Inc()
	m.callDuration.Observe(elapsed.Seconds())
	m.chunkSize.Observe(float64(documents))
}

func (m *Metrics) ObserveResults(results []models.SentimentResult) {
	for _, r := range results {
		m.documentsTotal.WithLabelValues(string(r.Label)).Inc()
	}
}
