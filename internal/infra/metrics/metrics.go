package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	VerificationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "verifications_total",
		Help: "Contacts saved after a successful verification",
	})
	DuplicateVerificationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "duplicate_verifications_total",
		Help: "Contact shares rejected because the sender was already verified",
	})
	ReferralNotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "referral_notifications_total",
		Help: "Referrer notifications attempted after a verification",
	}, []string{"status"})
	BroadcastDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "broadcast_deliveries_total",
		Help: "Per-recipient broadcast delivery attempts",
	}, []string{"status"})
	BotSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_send_errors_total",
		Help: "Failed message sends to Telegram",
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Duration of Telegram API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Number of Telegram API requests",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister registers all collectors.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		VerificationsTotal,
		DuplicateVerificationsTotal,
		ReferralNotificationsTotal,
		BroadcastDeliveriesTotal,
		BotSendErrors,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// ObserveNetworkRequest records the duration and outcome of an API request.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// IncReferralNotification counts one referrer notification attempt.
func IncReferralNotification(ok bool) {
	ReferralNotificationsTotal.WithLabelValues(outcome(ok)).Inc()
}

// IncBroadcastDelivery counts one per-recipient broadcast send.
func IncBroadcastDelivery(ok bool) {
	BroadcastDeliveriesTotal.WithLabelValues(outcome(ok)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
