package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/bookings", "200", 0.5)
	RecordHTTPRequest("GET", "/bookings", "200", 0.1)
	RecordHTTPRequest("GET", "/bookings", "400", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/bookings", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/bookings", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordBookingCounters(t *testing.T) {
	BookingDecisionsTotal.Reset()
	BookingRejectionsTotal.Reset()

	before := testutil.ToFloat64(BookingsCreatedTotal)
	RecordBookingCreated()
	assert.Equal(t, before+1, testutil.ToFloat64(BookingsCreatedTotal))

	RecordBookingDecision("APPROVED")
	RecordBookingDecision("REJECTED")
	RecordBookingDecision("APPROVED")
	assert.Equal(t, float64(2), testutil.ToFloat64(BookingDecisionsTotal.WithLabelValues("APPROVED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingDecisionsTotal.WithLabelValues("REJECTED")))

	RecordBookingRejection("overlap")
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingRejectionsTotal.WithLabelValues("overlap")))
}

func TestRecordItemCacheLookup(t *testing.T) {
	ItemCacheLookupsTotal.Reset()

	RecordItemCacheLookup("hit")
	RecordItemCacheLookup("miss")
	RecordItemCacheLookup("hit")

	assert.Equal(t, float64(2), testutil.ToFloat64(ItemCacheLookupsTotal.WithLabelValues("hit")))
}
