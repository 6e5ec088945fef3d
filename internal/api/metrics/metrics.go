// Package metrics defines and registers all custom Prometheus metrics for the
// Cosecha en Cope marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry at package
// init via promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cosechaencope"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login exchanges.
// Labels:
//   - audience: "generic" or "productores"
//   - result: "ok", "invalid_credentials", "wrong_audience", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by audience and result.",
	},
	[]string{"audience", "result"},
)

// RegistrationsTotal counts account registrations.
// Label:
//   - user_type: "CLIENTE" or "PRODUCTOR"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by user type.",
	},
	[]string{"user_type"},
)

// TokenRevocationsTotal counts tokens revoked through logout.
var TokenRevocationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_revocations_total",
		Help:      "Total number of bearer tokens revoked via logout.",
	},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditProcessedTotal counts audit events that were persisted successfully.
// Labels:
//   - entity: "articulo" or "categoria"
//   - action: "created", "updated", or "deleted"
var AuditProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_processed_total",
		Help:      "Total number of audit events successfully persisted.",
	},
	[]string{"entity", "action"},
)

// AuditErrorsTotal counts audit events that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "insert_failed")
var AuditErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit events that failed processing.",
	},
	[]string{"reason"},
)

// AuditQueueDepth tracks the current number of audit events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
