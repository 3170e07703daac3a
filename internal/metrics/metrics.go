// Package metrics holds the Prometheus counters for store and mode operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics is a private registry plus the counters registered on it.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	StoreOps     *prometheus.CounterVec
	ModeSwitches *prometheus.CounterVec
	WipeFailures *prometheus.CounterVec
}

// New builds the counters and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		StoreOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sail_store_operations_total",
				Help: "Number of encrypted store operations",
			},
			[]string{"namespace", "op", "result"},
		),
		ModeSwitches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sail_mode_switches_total",
				Help: "Number of committed network mode switches",
			},
			[]string{"from", "to"},
		),
		WipeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sail_wipe_failures_total",
				Help: "Number of files that could not be scrubbed during a secure wipe",
			},
			[]string{"namespace"},
		),
	}
	m.Registry.MustRegister(m.StoreOps, m.ModeSwitches, m.WipeFailures)
	return m
}

// StoreOp counts one store operation and whether it failed.
func (m *Metrics) StoreOp(namespace, op string, err error) {
	if m == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.StoreOps.WithLabelValues(namespace, op, result).Inc()
}

// ModeSwitch counts a committed transition.
func (m *Metrics) ModeSwitch(from, to string) {
	if m == nil {
		return
	}
	m.ModeSwitches.WithLabelValues(from, to).Inc()
}

// WipeFailed counts files left behind by a failed wipe.
func (m *Metrics) WipeFailed(namespace string, files int) {
	if m == nil || files <= 0 {
		return
	}
	m.WipeFailures.WithLabelValues(namespace).Add(float64(files))
}

// WriteTextfile dumps the registry in the text exposition format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
