package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/initiatives", 200, 30*time.Millisecond)
	m.ObserveAPI("GET", "/api/initiatives", 200, 2*time.Second)
	m.IncLoginFailure("invalid_credentials")
	m.SSEClientsAdd(1)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`roadmap_api_requests_total{method="GET",route="/api/initiatives",status="200"} 2`,
		`roadmap_api_request_duration_seconds_bucket{method="GET",route="/api/initiatives",le="0.05"} 1`,
		`roadmap_api_request_duration_seconds_bucket{method="GET",route="/api/initiatives",le="+Inf"} 2`,
		`roadmap_login_failures_total{reason="invalid_credentials"} 1`,
		"roadmap_sse_clients 1",
		"# TYPE roadmap_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing line %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.InflightAdd(1)
	m.IncEvent("x")
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil WritePrometheus: %v", err)
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = s3cr3t ,broken,=x, team=core")
	if len(got) != 2 || got["api-key"] != "s3cr3t" || got["team"] != "core" {
		t.Fatalf("ParseHeaders: got=%v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("ParseHeaders empty: want=nil")
	}
}
