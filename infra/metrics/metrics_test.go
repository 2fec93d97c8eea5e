package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest_CountsByMethodAndStatus(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("PUT", "200"))

	ObserveRequest("PUT", "200", 15*time.Millisecond)
	ObserveRequest("PUT", "200", 5*time.Millisecond)
	ObserveRequest("PUT", "error", time.Millisecond)

	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("PUT", "200")); got != before+2 {
		t.Fatalf("expected two PUT 200 requests, got %v (before %v)", got, before)
	}
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("PUT", "error")); got < 1 {
		t.Fatalf("expected transport error counted, got %v", got)
	}
}
