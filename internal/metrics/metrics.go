package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fightclub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fightclub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentsRegisteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fightclub_payments_registered_total",
			Help: "Total number of payments registered",
		},
		[]string{"method"},
	)

	PaymentsVoidedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fightclub_payments_voided_total",
			Help: "Total number of payments voided",
		},
	)

	BonoClassesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fightclub_bono_classes_consumed_total",
			Help: "Total number of classes consumed from bono subscriptions",
		},
		[]string{"exhausted"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fightclub_checkins_total",
			Help: "Total number of check-ins by outcome",
		},
		[]string{"result"},
	)

	PatternSlotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fightclub_pattern_slots_total",
			Help: "Class slots seen while expanding patterns",
		},
		[]string{"result"},
	)

	SubstitutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fightclub_substitutions_total",
			Help: "Total number of substitute assignments and removals",
		},
		[]string{"action"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fightclub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fightclub_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPaymentRegistered(method string) {
	PaymentsRegisteredTotal.WithLabelValues(method).Inc()
}

func RecordPaymentVoided() {
	PaymentsVoidedTotal.Inc()
}

func RecordBonoConsumed(exhausted bool) {
	BonoClassesConsumedTotal.WithLabelValues(strconv.FormatBool(exhausted)).Inc()
}

func RecordCheckIn(created bool) {
	result := "duplicate"
	if created {
		result = "created"
	}
	CheckInsTotal.WithLabelValues(result).Inc()
}

func RecordPatternExpansion(created, skipped int) {
	PatternSlotsTotal.WithLabelValues("created").Add(float64(created))
	PatternSlotsTotal.WithLabelValues("skipped").Add(float64(skipped))
}

func RecordSubstitution(action string) {
	SubstitutionsTotal.WithLabelValues(action).Inc()
}

func RecordEmail(status string) {
	EmailsSentTotal.WithLabelValues(status).Inc()
}
