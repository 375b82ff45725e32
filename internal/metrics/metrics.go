//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package metrics defines the Prometheus collectors exported by the
// dashboard server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pgEdge/pgedge-salesdash/internal/rfm"
)

//nolint:gochecknoglobals // collectors register with the default registry
var (
	// RequestsTotal counts HTTP requests by route pattern and status code.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesdash_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "method", "status"},
	)

	// RequestDuration measures HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salesdash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"route"},
	)

	// ViewDuration measures how long each dashboard view takes to compute.
	ViewDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salesdash_view_duration_seconds",
			Help:    "Dashboard view computation time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"view"},
	)

	// DatasetRows is the number of rows in the loaded base table.
	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salesdash_dataset_rows",
			Help: "Rows in the loaded base table",
		},
	)

	// DatasetLoadDuration records how long the base table took to load.
	DatasetLoadDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salesdash_dataset_load_seconds",
			Help: "Time taken to load the base table in seconds",
		},
	)

	// SegmentCustomers is the number of customers in each RFM segment.
	SegmentCustomers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salesdash_segment_customers",
			Help: "Customers per RFM segment",
		},
		[]string{"segment"},
	)
)

// RecordRequest records a served HTTP request.
func RecordRequest(route, method string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordView records the computation time of one view.
func RecordView(view string, duration time.Duration) {
	ViewDuration.WithLabelValues(view).Observe(duration.Seconds())
}

// RecordDataset records the size and load time of the base table.
func RecordDataset(rows int, duration time.Duration) {
	DatasetRows.Set(float64(rows))
	DatasetLoadDuration.Set(duration.Seconds())
}

// RecordSegments publishes the customer count of every segment.
func RecordSegments(summaries []rfm.SegmentSummary) {
	for _, s := range summaries {
		SegmentCustomers.WithLabelValues(string(s.Segment)).Set(float64(s.Customers))
	}
}
