// Package metrics defines and registers the custom Prometheus metrics of the
// user administration API. It is the single source of truth for metric names,
// labels and help strings.
//
// All metrics register with the default Prometheus registry on package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "useradmin"

// Result label values shared by the counters below.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultError    = "error"
)

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountOperationsTotal counts account service operations.
// Labels:
//   - operation: list, get, create, update, update_role, delete
//   - result: ok, not_found, conflict, error
var AccountOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_operations_total",
		Help:      "Total number of account operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// PasswordHashDuration measures the cost of the adaptive password hash, the
// dominant latency of every account write.
var PasswordHashDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of a single password hash computation.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
)

// ── Access metrics ────────────────────────────────────────────────────────────

// AccessDecisionsTotal counts decisions of the access policy gate.
// Labels:
//   - access: public, authenticated, admin
//   - decision: allow, unauthenticated, forbidden
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access policy decisions.",
	},
	[]string{"access", "decision"},
)

// LoginsTotal counts login attempts by result (ok, invalid, disabled).
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Bootstrap and cache metrics ───────────────────────────────────────────────

// SeededTotal counts rows created by the bootstrap seeder.
// Label:
//   - kind: role or account
var SeededTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seeded_total",
		Help:      "Total number of roles and accounts created at startup.",
	},
	[]string{"kind"},
)

// RoleCacheLookupsTotal counts role cache lookups by result (hit, miss, error).
var RoleCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_cache_lookups_total",
		Help:      "Total number of role cache lookups, by result.",
	},
	[]string{"result"},
)
