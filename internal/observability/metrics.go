package observability

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// Metrics holds the process counters served on GET /metrics.
type Metrics struct {
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
	apiInflight   *Gauge
	loginFailures *CounterVec
	sseClients    *Gauge
	events        *CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("roadmap_api_requests_total", "API requests by method, route and status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"roadmap_api_request_duration_seconds",
			"API request latency in seconds by method and route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight:   NewGauge("roadmap_api_inflight_requests", "In-flight API requests."),
		loginFailures: NewCounterVec("roadmap_login_failures_total", "Rejected logins by reason.", []string{"reason"}),
		sseClients:    NewGauge("roadmap_sse_clients", "Connected server-sent event streams."),
		events:        NewCounterVec("roadmap_realtime_events_total", "Realtime events published by type.", []string{"event"}),
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) InflightAdd(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.Add(delta)
}

func (m *Metrics) IncLoginFailure(reason string) {
	if m == nil {
		return
	}
	m.loginFailures.Inc(reason)
}

func (m *Metrics) SSEClientsAdd(delta float64) {
	if m == nil {
		return
	}
	m.sseClients.Add(delta)
}

func (m *Metrics) IncEvent(event string) {
	if m == nil {
		return
	}
	m.events.Inc(event)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.loginFailures,
		m.sseClients,
		m.events,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}
