package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRemoteAPIMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRemoteAPIMetrics(reg)
	m.Observe("products.list", "ok", 250*time.Millisecond)
	m.Observe("products.list", "5xx", 10*time.Millisecond)
	m.Observe("", "transport", time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "remote_api_requests_total", "outcome", "5xx"); err != nil {
		t.Fatalf("fetch 5xx: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 5xx=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "remote_api_requests_total", "operation", "unknown"); err != nil {
		t.Fatalf("fetch unknown operation: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "remote_api_request_duration_seconds", "operation", "products.list"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got < 0.25 {
		t.Fatalf("expected duration sum >= 0.25, got %f", got)
	}
}

func TestHTTPMetricsExportsStatusCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/v1/cart", 200, 5*time.Millisecond)
	m.Observe("GET", "/api/v1/cart", 200, 5*time.Millisecond)
	m.Observe("POST", "/api/v1/cart/items", 422, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "200"); err != nil {
		t.Fatalf("fetch 200: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 200 count=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "422"); err != nil || got != 1 {
		t.Fatalf("expected 422 count=1, got %f (%v)", got, err)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var remote *RemoteAPIMetrics
	remote.Observe("x", "ok", time.Second)
	NewRemoteAPIMetrics(nil).Observe("x", "ok", time.Second)
	var inbound *HTTPMetrics
	inbound.Observe("GET", "/", 200, time.Second)
}

func TestOutcomeForStatus(t *testing.T) {
	cases := map[int]string{0: "transport", 200: "ok", 304: "ok", 404: "4xx", 429: "4xx", 503: "5xx"}
	for status, want := range cases {
		if got := OutcomeForStatus(status); got != want {
			t.Errorf("OutcomeForStatus(%d)=%s, want %s", status, got, want)
		}
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
