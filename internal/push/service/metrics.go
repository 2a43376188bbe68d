package service

import (
	"github.com/vlasovdm/taskdeck/backend/internal/observability/metrics"
)

func incrementSubscriptionsCreated() {
	metrics.PushSubscriptionsCreated.Inc()
}

func incrementSubscriptionsDeleted(reason string) {
	metrics.PushSubscriptionsDeleted.WithLabelValues(reason).Inc()
}

func addSubscriptionsDeleted(reason string, n int64) {
	if n > 0 {
		metrics.PushSubscriptionsDeleted.WithLabelValues(reason).Add(float64(n))
	}
}

func incrementMessagesSent() {
	metrics.PushMessagesSent.Inc()
}

func incrementMessagesFailed(status string) {
	metrics.PushMessagesFailed.WithLabelValues(status).Inc()
}

func observeSendDuration(seconds float64) {
	metrics.PushSendDurationSeconds.Observe(seconds)
}
