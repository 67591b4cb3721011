// Package metrics defines and registers the custom Prometheus metrics of the
// accounts API. Metrics are registered with the default registry on package
// init via promauto; HTTP request metrics come from the echoprometheus
// middleware wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Authentication ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - kind: "user" or "admin"
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by principal kind and result.",
	},
	[]string{"kind", "result"},
)

// TokenVerificationsTotal counts bearer token checks.
// Label:
//   - result: "valid", "missing", "malformed", "invalid_signature", "expired"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// AuthorizationDenialsTotal counts requests refused by the role gate.
// Label:
//   - requirement: "user", "admin" or "super_admin"
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of authenticated requests denied for insufficient role.",
	},
	[]string{"requirement"},
)

// ── Accounts ─────────────────────────────────────────────────────────────────

// PrincipalMutationsTotal counts successful writes to the credential stores.
// Labels:
//   - kind: "user" or "admin"
//   - op: "create", "update" or "delete"
var PrincipalMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "principal_mutations_total",
		Help:      "Total number of principal records created, updated or deleted.",
	},
	[]string{"kind", "op"},
)

// ── Audit trail ──────────────────────────────────────────────────────────────

// AuditQueueDepth tracks events waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events by outcome.
// Label:
//   - result: "written", "dropped" (queue full) or "error" (store write failed)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by outcome.",
	},
	[]string{"result"},
)
