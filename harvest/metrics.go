package harvest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the harvester.
type Metrics struct {
	Registry       *prometheus.Registry
	PagesTotal     *prometheus.CounterVec
	RecordsTotal   prometheus.Counter
	FetchDuration  prometheus.Histogram
	RetriesTotal   prometheus.Counter
	ErrorsTotal    *prometheus.CounterVec
	AreasCompleted prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_pages_total",
			Help: "Total result pages fetched, by backend.",
		},
		[]string{"backend"},
	)
	records := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_records_total",
			Help: "Total records appended to the output artifact.",
		},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harvester_fetch_duration_seconds",
			Help:    "Page fetch latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_fetch_retries_total",
			Help: "Total fetch retry attempts.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_errors_total",
			Help: "Total harvest errors by type.",
		},
		[]string{"error_type"},
	)
	areas := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_areas_completed_total",
			Help: "Areas whose pagination loop reached the end of results.",
		},
	)

	registry.MustRegister(pages, records, fetchDuration, retries, errorsTotal, areas)

	return &Metrics{
		Registry:       registry,
		PagesTotal:     pages,
		RecordsTotal:   records,
		FetchDuration:  fetchDuration,
		RetriesTotal:   retries,
		ErrorsTotal:    errorsTotal,
		AreasCompleted: areas,
	}
}

// IncPage increments the fetched-pages counter for a backend.
func (m *Metrics) IncPage(backend string) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(backend).Inc()
}

// IncRecords adds appended records to the records counter.
func (m *Metrics) IncRecords(n int) {
	if m == nil {
		return
	}
	m.RecordsTotal.Add(float64(n))
}

// ObserveFetch records one page fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncRetries increments the retry counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError increments the errors counter for a taxonomy tag.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncAreas increments the completed-areas counter.
func (m *Metrics) IncAreas() {
	if m == nil {
		return
	}
	m.AreasCompleted.Inc()
}
