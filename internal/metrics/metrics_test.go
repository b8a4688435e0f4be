package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/api/checkins", "201", 0.05)
	RecordHTTPRequest("POST", "/api/checkins", "201", 0.07)
	RecordHTTPRequest("POST", "/api/checkins", "409", 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/checkins", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/checkins", "409")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordPaymentRegistered(t *testing.T) {
	PaymentsRegisteredTotal.Reset()

	RecordPaymentRegistered("CASH")
	RecordPaymentRegistered("CASH")
	RecordPaymentRegistered("CARD")

	assert.Equal(t, float64(2), testutil.ToFloat64(PaymentsRegisteredTotal.WithLabelValues("CASH")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PaymentsRegisteredTotal.WithLabelValues("CARD")))
}

func TestRecordPaymentVoided(t *testing.T) {
	testCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fightclub_payments_voided_total_test",
		Help: "Total number of payments voided",
	})

	old := PaymentsVoidedTotal
	PaymentsVoidedTotal = testCounter
	defer func() { PaymentsVoidedTotal = old }()

	RecordPaymentVoided()

	assert.Equal(t, float64(1), testutil.ToFloat64(testCounter))
}

func TestRecordBonoConsumed(t *testing.T) {
	BonoClassesConsumedTotal.Reset()

	RecordBonoConsumed(false)
	RecordBonoConsumed(false)
	RecordBonoConsumed(true)

	assert.Equal(t, float64(2), testutil.ToFloat64(BonoClassesConsumedTotal.WithLabelValues("false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BonoClassesConsumedTotal.WithLabelValues("true")))
}

func TestRecordCheckIn(t *testing.T) {
	CheckInsTotal.Reset()

	RecordCheckIn(true)
	RecordCheckIn(false)
	RecordCheckIn(false)

	assert.Equal(t, float64(1), testutil.ToFloat64(CheckInsTotal.WithLabelValues("created")))
	assert.Equal(t, float64(2), testutil.ToFloat64(CheckInsTotal.WithLabelValues("duplicate")))
}

func TestRecordPatternExpansion(t *testing.T) {
	PatternSlotsTotal.Reset()

	RecordPatternExpansion(2, 0)
	RecordPatternExpansion(1, 2)

	assert.Equal(t, float64(3), testutil.ToFloat64(PatternSlotsTotal.WithLabelValues("created")))
	assert.Equal(t, float64(2), testutil.ToFloat64(PatternSlotsTotal.WithLabelValues("skipped")))
}

func TestRecordSubstitution(t *testing.T) {
	SubstitutionsTotal.Reset()

	RecordSubstitution("assigned")
	RecordSubstitution("removed")

	assert.Equal(t, float64(1), testutil.ToFloat64(SubstitutionsTotal.WithLabelValues("assigned")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SubstitutionsTotal.WithLabelValues("removed")))
}

func TestRecordEmailAndQueueLength(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("sent")
	RecordEmail("failed")
	EmailQueueLength.Set(4)

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("failed")))
	assert.Equal(t, float64(4), testutil.ToFloat64(EmailQueueLength))
}
