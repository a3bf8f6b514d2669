// Package metrics defines and registers all custom Prometheus metrics for the
// AnonExchange API. It is the single source of truth for metric names, labels,
// and help strings. Registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "anonexchange"

// ── Feedback metrics ──────────────────────────────────────────────────────────

// MessagesSentTotal counts anonymous messages accepted into an inbox.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of anonymous messages delivered.",
	},
)

// MessagesDeletedTotal counts messages removed by their owner.
var MessagesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_deleted_total",
		Help:      "Total number of messages deleted by their owner.",
	},
)

// ReviewsSubmittedTotal counts accepted anonymous reviews.
// Label:
//   - rating: the star rating ("1".."5")
var ReviewsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_submitted_total",
		Help:      "Total number of anonymous reviews accepted, by rating.",
	},
	[]string{"rating"},
)

// AcceptanceTogglesTotal counts acceptance-flag updates.
// Labels:
//   - entity: "user" (messages) or "product" (reviews)
//   - accepting: "true" or "false"
var AcceptanceTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "acceptance_toggles_total",
		Help:      "Total number of acceptance-flag updates, by entity and new value.",
	},
	[]string{"entity", "accepting"},
)

// ── Email metrics ─────────────────────────────────────────────────────────────

// VerificationEmailsTotal counts verification email delivery outcomes.
// Label:
//   - result: "sent" or "failed"
var VerificationEmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_emails_total",
		Help:      "Total number of verification email deliveries, by result.",
	},
	[]string{"result"},
)

// EmailQueueDepth tracks the number of emails waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EmailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "email_queue_depth",
		Help:      "Current number of emails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Suggestion metrics ────────────────────────────────────────────────────────

// SuggestionsTotal counts suggestion requests.
// Label:
//   - result: "served", "fallback", or "throttled"
var SuggestionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suggestions_total",
		Help:      "Total number of suggestion requests, by result.",
	},
	[]string{"result"},
)
