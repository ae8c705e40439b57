// Package metrics defines and registers all custom Prometheus metrics for the
// coaching API identity subsystem. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coaching"

// ── Credential metrics ────────────────────────────────────────────────────────

// LoginsTotal counts login outcomes.
// Label:
//   - result: "success", "failure" (bad email or password), or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts newly created accounts.
// Label:
//   - role: the role assigned at creation ("client", "trainer", "admin")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by assigned role.",
	},
	[]string{"role"},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// TokenRejectionsTotal counts bearer tokens refused by the codec.
// Label:
//   - reason: "expired" or "malformed"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of bearer tokens rejected during validation.",
	},
	[]string{"reason"},
)

// GuardDenialsTotal counts requests stopped by the access guard.
// Label:
//   - reason: "missing_token", "invalid_token", "unknown_subject", or "forbidden"
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of requests denied by the access guard, by reason.",
	},
	[]string{"reason"},
)
