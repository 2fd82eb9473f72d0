package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "botto"

	BotSubsystem = "bot"
)

var (
	UpdatesIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "updates_ingested_total",
			Help:      "Total number of raw updates admitted into the session queue",
		},
	)

	UpdatesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "updates_dropped_total",
			Help:      "Total number of raw updates dropped during ingestion",
		},
		[]string{"reason"},
	)

	MessagesDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "messages_dispatched_total",
			Help:      "Total number of queued messages processed by the dispatcher",
		},
		[]string{"outcome"},
	)

	SendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "send_failures_total",
			Help:      "Total number of failed outbound sends",
		},
	)

	SetupsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "setups_completed_total",
			Help:      "Total number of completed setup conversations",
		},
	)
)

const (
	DropReasonMalformed = "malformed"

	OutcomeRouted       = "routed"
	OutcomeUnknownChat  = "unknown_chat"
	OutcomeConversation = "conversation"
)

func RecordIngestedUpdate() {
	UpdatesIngestedTotal.Inc()
}

func RecordDroppedUpdate(reason string) {
	UpdatesDroppedTotal.WithLabelValues(reason).Inc()
}

func RecordDispatchedMessage(outcome string) {
	MessagesDispatchedTotal.WithLabelValues(outcome).Inc()
}

func RecordSendFailure() {
	SendFailuresTotal.Inc()
}

func RecordSetupCompleted() {
	SetupsCompletedTotal.Inc()
}
