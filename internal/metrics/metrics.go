// Package metrics exposes Prometheus counters for the site's user-facing flows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
	OutcomeIgnored   = "ignored"
)

// AuthOperations counts register/login/logout calls by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var AuthOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cryptostarter_auth_operations_total",
		Help: "Total number of authentication operations",
	},
	[]string{"operation", "outcome"},
)

// PreRegistrations counts pre-registration submissions by outcome.
var PreRegistrations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cryptostarter_preregistrations_total",
		Help: "Total number of pre-registration submissions",
	},
	[]string{"outcome"},
)

// EarnedFetchFailures counts failed raised-funds lookups.
var EarnedFetchFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "cryptostarter_earned_fetch_failures_total",
		Help: "Total number of failed raised-funds lookups",
	},
)

// RegisterMetrics registers all counters with reg. Panics on duplicate registration.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthOperations)
	reg.MustRegister(PreRegistrations)
	reg.MustRegister(EarnedFetchFailures)
}

func RecordAuth(operation, outcome string) {
	AuthOperations.WithLabelValues(operation, outcome).Inc()
}

func RecordPreRegistration(outcome string) {
	PreRegistrations.WithLabelValues(outcome).Inc()
}

func RecordEarnedFailure() {
	EarnedFetchFailures.Inc()
}
