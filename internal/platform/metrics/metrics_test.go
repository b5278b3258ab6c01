package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRegistry_RecordsCalculations(t *testing.T) {
	r := New(WithNamespace("test"))

	r.ObserveCalculation("QB", "real", 67)
	r.ObserveCalculation("QB", "real", 80)
	r.ObserveCalculation("RB", "no_data", 0)

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var qbReal float64
	scoreSeries := 0
	for _, mf := range families {
		switch mf.GetName() {
		case "test_accuracy_calculations_total":
			for _, m := range mf.GetMetric() {
				labels := map[string]string{}
				for _, lp := range m.GetLabel() {
					labels[lp.GetName()] = lp.GetValue()
				}
				if labels["position"] == "QB" && labels["source"] == "real" {
					qbReal = m.GetCounter().GetValue()
				}
			}
		case "test_accuracy_score":
			scoreSeries = len(mf.GetMetric())
		}
	}
	if qbReal != 2 {
		t.Fatalf("expected 2 QB calculations, got %v", qbReal)
	}
	if scoreSeries != 2 {
		t.Fatalf("expected 2 score series, got %d", scoreSeries)
	}
}

func TestRegistry_HTTPHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.ObserveHTTPRequest("GET /healthz", http.MethodGet, http.StatusOK, 3*time.Millisecond)
	r.IncProviderError("WR")
	r.ObserveRescore(time.Second, 4, 1)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"rankbet_http_requests_total",
		"rankbet_performance_fetch_errors_total",
		`rankbet_rescored_rankings_total{outcome="scored"} 4`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, body)
		}
	}
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry
	r.ObserveCalculation("QB", "real", 10)
	r.ObserveHTTPRequest("x", "GET", 200, time.Millisecond)
	r.IncProviderError("QB")
	r.ObserveRescore(time.Second, 1, 0)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil registry, got %d", rec.Code)
	}
}
