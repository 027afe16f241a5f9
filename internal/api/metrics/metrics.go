// Package metrics defines and registers all custom Prometheus metrics for the
// council API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register against the default registry via promauto at package load;
// the /metrics endpoint exposes them through echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "council"

// ── Election metrics ──────────────────────────────────────────────────────────

// VotesCastTotal counts ballots accepted into an election ledger.
var VotesCastTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of votes accepted.",
	},
)

// VotesRejectedTotal counts vote attempts that were refused.
// Label:
//   - reason: "already_voted", "not_active", "not_eligible", or "candidate_not_found"
var VotesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_rejected_total",
		Help:      "Total number of vote attempts refused, by reason.",
	},
	[]string{"reason"},
)

// ElectionStatusSweepsTotal counts sweeper passes that moved at least one
// election between lifecycle states.
var ElectionStatusSweepsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "election_status_sweeps_total",
		Help:      "Total number of sweeper passes that updated election statuses.",
	},
)

// ElectionStatusUpdatesTotal counts individual elections moved by the sweeper.
var ElectionStatusUpdatesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "election_status_updates_total",
		Help:      "Total number of elections whose status the sweeper advanced.",
	},
)

// ── Complaint metrics ─────────────────────────────────────────────────────────

// ComplaintsSubmittedTotal counts new complaints.
// Label:
//   - complaint_type: "general" or "academic"
var ComplaintsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "complaints_submitted_total",
		Help:      "Total number of complaints submitted, by type.",
	},
	[]string{"complaint_type"},
)

// ComplaintsResolvedTotal counts resolutions.
// Label:
//   - resolution_type: provenance recorded at resolve time (e.g. "admin_resolved")
var ComplaintsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "complaints_resolved_total",
		Help:      "Total number of complaints resolved, by resolver provenance.",
	},
	[]string{"resolution_type"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginFailuresTotal counts rejected login attempts.
// Label:
//   - reason: "bad_credentials", "deactivated", or "locked"
var LoginFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Total number of failed login attempts, by reason.",
	},
	[]string{"reason"},
)
