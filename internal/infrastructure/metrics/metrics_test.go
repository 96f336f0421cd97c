package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := New()

	c.ObserveVerification(true)
	c.ObserveVerification(false)
	c.ObserveVerification(false)
	c.RecordSaved()
	c.RecordDuplicate()
	c.SyncBatch(OutcomeSubmitted)
	c.SyncRecords(1, 1)
	c.SetPending(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.verifications.WithLabelValues("accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.verifications.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.recordsSaved))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.syncRecords.WithLabelValues("removed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.pending))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveVerification(true)
		c.RecordSaved()
		c.RecordDuplicate()
		c.SyncBatch(OutcomeEmpty)
		c.SyncRecords(1, 0)
		c.SetPending(1)
		c.PayloadIssued()
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.PayloadIssued()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rollcall_payloads_issued_total 1")
}
