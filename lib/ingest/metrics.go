// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/perfview/lib/schema/perf"
)

// Metrics counts connection and frame activity. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	connections prometheus.Counter
	active      prometheus.Gauge
	frames      *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewMetrics creates the ingest collectors and registers them with
// registerer. A nil registerer leaves them unregistered. Panics if the
// collectors are already registered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		connections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "perfview",
			Subsystem: "ingest",
			Name:      "connections_total",
			Help:      "Producer connections accepted or dialed.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "perfview",
			Subsystem: "ingest",
			Name:      "connections_active",
			Help:      "Producer connections currently being read.",
		}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "perfview",
			Subsystem: "ingest",
			Name:      "frames_total",
			Help:      "Frames decoded, by message kind. Kinds this build does not know are counted as \"unknown\".",
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "perfview",
			Subsystem: "ingest",
			Name:      "connection_errors_total",
			Help:      "Connections ended by an error, by reason.",
		}, []string{"reason"}),
	}
	if registerer != nil {
		registerer.MustRegister(metrics.connections, metrics.active, metrics.frames, metrics.failures)
	}
	return metrics
}

func (m *Metrics) connectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
	m.active.Inc()
}

func (m *Metrics) connectionClosed(err error) {
	if m == nil {
		return
	}
	m.active.Dec()
	if err != nil {
		m.failures.WithLabelValues(failureReason(err)).Inc()
	}
}

func (m *Metrics) frameDecoded(message perf.Message) {
	if m == nil {
		return
	}
	kind := string(message.Kind())
	if _, unknown := message.(perf.Unknown); unknown {
		kind = "unknown"
	}
	m.frames.WithLabelValues(kind).Inc()
}
