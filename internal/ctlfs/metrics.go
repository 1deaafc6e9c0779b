package ctlfs

import "github.com/prometheus/client_golang/prometheus"

// metrics instruments the control plane. Each server owns its own
// prometheus registry so repeated construction in tests never collides.
type metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	opFailures    *prometheus.CounterVec
	enabledClocks prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clkctl_requests_total",
			Help: "Control-plane requests by attribute and method.",
		}, []string{"attr", "method"}),
		opFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clkctl_operation_failures_total",
			Help: "Failed control-plane operations by attribute.",
		}, []string{"attr"}),
		enabledClocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clkctl_enabled_clocks",
			Help: "Enabled clocks counted by the most recent showall scan.",
		}),
	}

	m.registry.MustRegister(m.requests, m.opFailures, m.enabledClocks)

	return m
}
