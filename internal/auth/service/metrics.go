package service

import (
	"github.com/vlasovdm/taskdeck/backend/internal/observability/metrics"
)

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementLoginAttempt(outcome string) {
	metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

func incrementRegistration(outcome string) {
	metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
}
