package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vyapar-labs/siterisk/internal/model"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siterisk_http_requests_total",
			Help: "Total HTTP requests by route, method, and status code",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "siterisk_http_request_duration_seconds",
			Help: "HTTP request latency by route",
		},
		[]string{"route"},
	)

	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siterisk_analyses_total",
			Help: "Completed analyses by risk level",
		},
		[]string{"risk_level"},
	)

	datasetRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "siterisk_dataset_records",
			Help: "Record counts per loaded dataset",
		},
		[]string{"dataset"},
	)

	geocodeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siterisk_geocode_requests_total",
			Help: "Geocode resolutions by resolver and outcome",
		},
		[]string{"resolver", "outcome"},
	)
)

// recordGeocode counts a resolution against the resolver that produced it.
func recordGeocode(loc model.ResolvedLocation) {
	outcome := "fallback"
	if loc.Matched {
		outcome = "matched"
	}
	geocodeRequests.WithLabelValues(loc.Source, outcome).Inc()
}

// recordDatasetSizes publishes the loaded record counts.
func recordDatasetSizes(status model.DatasetStatus) {
	for dataset, count := range status.Counts {
		datasetRecords.WithLabelValues(dataset).Set(float64(count))
	}
}
