package observability

import (
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter names recorded by the pipeline components.
const (
	GatewayUnavailable   = "gateway.unavailable"
	GatewayParseError    = "gateway.parse_error"
	GatewayProviderError = "gateway.provider_error"
	GatewayInitFailure   = "gateway.init_failure"
	AnalysisFallback     = "analysis.fallback"
	TailoringFallback    = "tailoring.fallback"
	SanitizerRepairs     = "sanitizer.repairs"
	CompileSuccess       = "compile.success"
	CompileFailure       = "compile.failure"
	CompileTimeout       = "compile.timeout"
)

const (
	metricName = "resume_tailor_events_total"
	nameLabel  = "name"
)

// Metrics is a set of named monotonically increasing counters backed by a
// Prometheus counter vector on its own registry.
// A nil *Metrics is valid and discards everything.
type Metrics struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
}

// NewMetrics creates an empty counter set.
func NewMetrics() *Metrics {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricName,
		Help: "Pipeline events by name: fallbacks, sanitizer repairs, gateway failures and compile outcomes.",
	}, []string{nameLabel})

	registry := prometheus.NewRegistry()
	registry.MustRegister(events)
	return &Metrics{registry: registry, events: events}
}

// Inc adds one to the named counter.
func (m *Metrics) Inc(name string) {
	m.Add(name, 1)
}

// Add adds n to the named counter. Non-positive n is ignored.
func (m *Metrics) Add(name string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.events.WithLabelValues(name).Add(float64(n))
}

// Get returns the current value of the named counter.
func (m *Metrics) Get(name string) int64 {
	return m.Snapshot()[name]
}

// Snapshot returns a copy of all counters that have been recorded.
func (m *Metrics) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	if m == nil {
		return out
	}
	families, err := m.registry.Gather()
	if err != nil {
		return out
	}
	for _, family := range families {
		if family.GetName() != metricName {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == nameLabel {
					out[label.GetValue()] = int64(metric.GetCounter().GetValue())
				}
			}
		}
	}
	return out
}

// Names returns the recorded counter names in sorted order.
func (m *Metrics) Names() []string {
	snap := m.Snapshot()
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler serves the counters in the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
