// Package metrics exposes the extension's operational counters and gauges as
// Prometheus collectors on the default registry. The host process decides
// whether and where to serve them; the extension only keeps them current.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CallsTotal counts host calls by routing mode.
	CallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "extdb",
		Subsystem: "dispatch",
		Name:      "calls_total",
		Help:      "Host calls received, labeled by routing mode.",
	}, []string{"mode"})

	// ErrorsTotal counts in-band error envelopes by fixed message.
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "extdb",
		Subsystem: "dispatch",
		Name:      "errors_total",
		Help:      "In-band error envelopes written, labeled by message.",
	}, []string{"message"})

	// QueueDepth tracks tasks waiting for a worker.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "extdb",
		Subsystem: "worker",
		Name:      "queue_depth",
		Help:      "Tasks queued and not yet picked up by a worker.",
	})

	// LiveTickets tracks request ids allocated and not yet drained.
	LiveTickets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "extdb",
		Subsystem: "dispatch",
		Name:      "live_tickets",
		Help:      "Request ids currently live in the result store.",
	})

	// SessionsInUse tracks checked-out database sessions.
	SessionsInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "extdb",
		Subsystem: "db",
		Name:      "sessions_in_use",
		Help:      "Database sessions currently checked out of the pool.",
	})

	// SessionOverflows tracks ad-hoc sessions synthesized past the pool bound.
	SessionOverflows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "extdb",
		Subsystem: "db",
		Name:      "session_overflows_total",
		Help:      "Ad-hoc sessions opened because every pooled slot was busy.",
	})
)
