// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the sync engine:
// - notification intake and signature rejection
// - per-message routing decisions
// - records written per entity kind
// - rate limit rescheduling and poison counts

var (
	// Notification intake
	EnvelopesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "misfit_envelopes_received_total",
			Help: "Total number of notification envelopes received on the webhook",
		},
	)

	EnvelopesRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "misfit_envelopes_rejected_total",
			Help: "Total number of envelopes rejected for a bad signature",
		},
	)

	// Message routing
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "misfit_messages_processed_total",
			Help: "Total number of notification messages routed to an importer",
		},
		[]string{"kind", "action"},
	)

	MessagesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "misfit_messages_skipped_total",
			Help: "Total number of notification messages skipped",
		},
		[]string{"reason"}, // "unknown_user", "unknown_kind", "bad_request"
	)

	// Import throughput
	RecordsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "misfit_records_imported_total",
			Help: "Total number of entity records written by importers",
		},
		[]string{"kind"},
	)

	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "misfit_import_duration_seconds",
			Help:    "Duration of historical import runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Retry and failure handling
	RateLimitRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "misfit_rate_limit_retries_total",
			Help: "Total number of work units rescheduled after a rate limit response",
		},
	)

	PoisonMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "misfit_poison_messages_total",
			Help: "Total number of messages routed to the poison topic",
		},
		[]string{"topic"},
	)
)

// ObserveImport records one historical import run for a kind.
func ObserveImport(kind string, start time.Time) {
	ImportDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
