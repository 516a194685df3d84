// Package metrics defines and registers all custom Prometheus metrics for
// the civix grievance API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civix"

// GrievancesSubmittedTotal counts successfully filed grievances.
// Label:
//   - attachments: "yes" when the submission carried files, "no" otherwise
var GrievancesSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grievances_submitted_total",
		Help:      "Total number of grievances submitted.",
	},
	[]string{"attachments"},
)

// TransitionsTotal counts applied status transitions.
// Label:
//   - to: the new status
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of grievance status transitions applied.",
	},
	[]string{"to"},
)

// TransitionErrorsTotal counts rejected transition requests.
// Label:
//   - reason: "forbidden", "invalid_transition", "not_found", or "storage"
var TransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_errors_total",
		Help:      "Total number of grievance status transitions rejected.",
	},
	[]string{"reason"},
)

// FormatterFallbackTotal counts format requests served by the local template
// because the upstream formatter was unavailable.
var FormatterFallbackTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "formatter_fallback_total",
		Help:      "Total number of format requests answered with the local fallback template.",
	},
)

// UploadsTotal counts attachment upload attempts by outcome.
// Label:
//   - result: "ok" or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of attachment uploads, by result.",
	},
	[]string{"result"},
)
