package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "povertyline_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// Registrations counts completed account registrations.
	Registrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "povertyline_registrations_total",
			Help: "Total number of registered accounts",
		},
	)

	// VerificationEmails counts verification email dispatches by result (sent|failed|skipped).
	VerificationEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "povertyline_verification_emails_total",
			Help: "Total number of verification email dispatch attempts",
		},
		[]string{"result"},
	)

	// PendingVerifications tracks accounts stuck unverified past the alert threshold.
	PendingVerifications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "povertyline_pending_verifications",
			Help: "Number of accounts unverified for longer than the alert threshold",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "povertyline_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
