package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordAndExpose(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveQuery("products", "ok", 0.01)
	m.ObserveQuery("products", "ok", 0.02)
	m.AddRows("products", 1500)
	m.SignIn("success")

	if got := testutil.ToFloat64(m.StoreQueries.WithLabelValues("products", "ok")); got != 2 {
		t.Fatalf("expected 2 queries, got %v", got)
	}
	if got := testutil.ToFloat64(m.RowsFetched.WithLabelValues("products")); got != 1500 {
		t.Fatalf("expected 1500 rows, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "auth_sign_in_total") {
		t.Fatalf("expected sign-in counter in output: %s", rec.Body.String())
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveQuery("products", "error", 1)
	m.AddRows("products", 1)
	m.SignIn("failure")
}
