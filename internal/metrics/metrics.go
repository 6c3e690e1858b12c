// Package metrics counts option resolution activity with Prometheus
// collectors. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pppd"

// Option results.
const (
	Accepted = "accepted"
	Ignored  = "ignored"
	Rejected = "rejected"
)

// File results.
const (
	FileRead    = "read"
	FileMissing = "missing"
	FileFailed  = "failed"
)

// Metrics groups the resolution counters on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	OptionsProcessed *prometheus.CounterVec
	OptionFiles      *prometheus.CounterVec
	PluginsLoaded    prometheus.Counter
}

// New creates the counters and registers them.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		OptionsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "options_processed_total",
			Help:      "Number of option settings processed, by result.",
		}, []string{"result"}),
		OptionFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "option_files_total",
			Help:      "Number of option files opened, by result.",
		}, []string{"result"}),
		PluginsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plugins_loaded_total",
			Help:      "Number of plugins loaded.",
		}),
	}
	m.Registry.MustRegister(m.OptionsProcessed, m.OptionFiles, m.PluginsLoaded)
	return m
}

// OptionProcessed counts one processed option setting.
func (m *Metrics) OptionProcessed(result string) {
	if m == nil {
		return
	}
	m.OptionsProcessed.WithLabelValues(result).Inc()
}

// OptionFile counts one options file open attempt.
func (m *Metrics) OptionFile(result string) {
	if m == nil {
		return
	}
	m.OptionFiles.WithLabelValues(result).Inc()
}

// PluginLoaded counts one loaded plugin.
func (m *Metrics) PluginLoaded() {
	if m == nil {
		return
	}
	m.PluginsLoaded.Inc()
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}
