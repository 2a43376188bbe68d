package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PushSubscriptionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "push_subscriptions_created_total",
			Help: "Total number of push subscriptions stored or refreshed",
		},
	)

	PushSubscriptionsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_subscriptions_deleted_total",
			Help: "Total number of push subscriptions deleted by reason",
		},
		[]string{"reason"},
	)

	PushSubscriptionsCleanupDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "push_subscriptions_cleanup_deleted_total",
			Help: "Total number of expired push subscriptions deleted during cleanup",
		},
	)

	PushMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "push_messages_sent_total",
			Help: "Total number of push messages accepted by the push service",
		},
	)

	PushMessagesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_messages_failed_total",
			Help: "Total number of push messages rejected by the push service",
		},
		[]string{"status"},
	)

	PushSendDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "push_send_duration_seconds",
			Help:    "Duration of push service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
