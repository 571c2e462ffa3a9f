// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are registered on the default Prometheus registry. Programs that
// do not scrape them pay nothing beyond a few counters.
var (
	engineExceptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rdfox_engine_exceptions_total",
		Help: "Exceptions raised by the native engine, by exception name.",
	}, []string{"exception"})

	transactionsBegun = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rdfox_transactions_begun_total",
		Help: "Transactions begun, by transaction type.",
	}, []string{"type"})

	transactionsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rdfox_transactions_resolved_total",
		Help: "Transactions resolved, by outcome.",
	}, []string{"outcome"})

	cursorRowsRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rdfox_cursor_rows_total",
		Help: "Distinct answer rows consumed from cursors.",
	})

	cursorDuplicatesRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rdfox_cursor_duplicates_total",
		Help: "Additional answers implied by row multiplicities above one.",
	})

	streamedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rdfox_streamed_bytes_total",
		Help: "Bytes delivered to sinks by streaming exports.",
	})

	filesImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rdfox_files_imported_total",
		Help: "Data files imported into data stores, by outcome.",
	}, []string{"outcome"})
)
