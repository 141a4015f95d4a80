package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntitlementChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entitlement_checks_total",
		Help: "Entitlement resolutions by verdict reason.",
	}, []string{"reason"})

	PaymentAttemptsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_attempts_started_total",
		Help: "Purchase attempts that reached the gateway token request.",
	})

	PaymentAttemptsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_attempts_granted_total",
		Help: "Purchase attempts settled and entitled.",
	})

	PaymentAttemptsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_attempts_failed_total",
		Help: "Purchase attempts that terminated without a grant, by reason.",
	}, []string{"reason"})
)
