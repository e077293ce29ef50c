package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAuth(t *testing.T) {
	before := testutil.ToFloat64(AuthOperations.WithLabelValues("login", OutcomeRejected))
	RecordAuth("login", OutcomeRejected)
	assert.Equal(t, before+1, testutil.ToFloat64(AuthOperations.WithLabelValues("login", OutcomeRejected)))
}

func TestRecordPreRegistrationAndEarned(t *testing.T) {
	before := testutil.ToFloat64(PreRegistrations.WithLabelValues(OutcomeIgnored))
	RecordPreRegistration(OutcomeIgnored)
	assert.Equal(t, before+1, testutil.ToFloat64(PreRegistrations.WithLabelValues(OutcomeIgnored)))

	failures := testutil.ToFloat64(EarnedFetchFailures)
	RecordEarnedFailure()
	assert.Equal(t, failures+1, testutil.ToFloat64(EarnedFetchFailures))
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterMetrics(reg) })
	assert.Panics(t, func() { RegisterMetrics(reg) })
}
