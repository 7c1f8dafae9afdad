package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                "/",
		"/api/v1/users/42/enable":         "/api/v1/users/:id/enable",
		"/api/v1/bulk-discounts/active":   "/api/v1/bulk-discounts/active",
		"/api/v1/coins/deduct-for-client": "/api/v1/coins/deduct-for-client",
		"/api/v1/transactions/9f1c2d3e-4b5a-4c6d-8e7f-0a1b2c3d4e5f": "/api/v1/transactions/:id",
		"/api/v1/roles/65a1b2c3d4e5f60718293a4b?x=1":                "/api/v1/roles/:id",
		"/api/v1/transactions/TX-2024-0001":                         "/api/v1/transactions/:id",
		"/api/v1/transactions/{id}":                                 "/api/v1/transactions/:id",
		"/api/v2/users/{id}/disable":                                "/api/v2/users/:id/disable",
	}
	for in, want := range cases {
		if got := canonicalPath(in); got != want {
			t.Errorf("canonicalPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStartCall_CountsByStatus(t *testing.T) {
	done := StartCall("admin", "get", "/api/v1/users/7")
	done(200)

	got := testutil.ToFloat64(apiRequests.WithLabelValues("admin", "GET", "/api/v1/users/:id", "200"))
	if got < 1 {
		t.Errorf("requests_total = %v, want >= 1", got)
	}
	if v := testutil.ToFloat64(apiInFlight); v != 0 {
		t.Errorf("inflight = %v, want 0 after completion", v)
	}
}

func TestStartCall_TransportFailure(t *testing.T) {
	StartCall("coins", "POST", "/api/v1/coins/buy")(0)

	got := testutil.ToFloat64(apiRequests.WithLabelValues("coins", "POST", "/api/v1/coins/buy", "error"))
	if got < 1 {
		t.Errorf("transport failures should be labelled error, got %v", got)
	}
}

func TestRecordSessionExpired(t *testing.T) {
	before := testutil.ToFloat64(sessionExpired.WithLabelValues("admin"))
	RecordSessionExpired("admin")
	after := testutil.ToFloat64(sessionExpired.WithLabelValues("admin"))
	if after-before != 1 {
		t.Errorf("session_expired_total delta = %v, want 1", after-before)
	}
}

func TestStartCall_BusinessKeysShareOneLabel(t *testing.T) {
	before := testutil.CollectAndCount(apiRequests)
	for _, id := range []string{"TX-2024-0001", "TX-2024-0002", "pay_9Xa3"} {
		StartCall("admin", "GET", "/api/v1/transactions/"+id)(404)
	}
	after := testutil.CollectAndCount(apiRequests)
	if after-before > 1 {
		t.Errorf("distinct ids created %d new series, want at most 1", after-before)
	}

	got := testutil.ToFloat64(apiRequests.WithLabelValues("admin", "GET", "/api/v1/transactions/:id", "404"))
	if got < 3 {
		t.Errorf("requests_total{endpoint=/api/v1/transactions/:id} = %v, want >= 3", got)
	}
}
