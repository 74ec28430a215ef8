/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CommandsTotal counts dispatched protocol commands by opcode and result.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grimnir_timer_commands_total",
		Help: "Protocol commands dispatched, by opcode and result.",
	}, []string{"opcode", "result"})

	// BytesDroppedTotal counts transport bytes the protocol discarded.
	BytesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grimnir_timer_bytes_dropped_total",
		Help: "Bytes discarded by the command reader, by reason.",
	}, []string{"reason"})

	EvaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grimnir_timer_evaluations_total",
		Help: "Schedule evaluations performed by the controller loop.",
	})

	// ActivationState is 1 while the output is on.
	ActivationState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grimnir_timer_activation_state",
		Help: "Current activation output (1 on, 0 off).",
	})

	ActivationChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grimnir_timer_activation_changes_total",
		Help: "Edges of the activation output.",
	})

	ActuatorErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grimnir_timer_actuator_errors_total",
		Help: "Failures driving the actuator.",
	})

	// PersistWritesTotal counts schedule image commits by result.
	PersistWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grimnir_timer_persist_writes_total",
		Help: "Schedule image commits, by backend and result.",
	}, []string{"backend", "result"})

	PersistDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grimnir_timer_persist_duration_seconds",
		Help:    "Time spent committing the schedule image.",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})

	DatabaseQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grimnir_timer_database_query_duration_seconds",
		Help:    "Latency of image backend database operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	DatabaseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grimnir_timer_database_errors_total",
		Help: "Failed image backend database operations.",
	}, []string{"operation"})

	// EventsPublishedTotal counts events forwarded to the external bus.
	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grimnir_timer_events_published_total",
		Help: "Timer events forwarded to NATS, by type and result.",
	}, []string{"event", "result"})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grimnir_timer_api_requests_total",
		Help: "Ops HTTP requests.",
	}, []string{"method", "endpoint", "status"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grimnir_timer_api_request_duration_seconds",
		Help:    "Ops HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grimnir_timer_api_active_connections",
		Help: "In-flight ops HTTP requests.",
	})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// BoolGauge converts an on/off state to a gauge value.
func BoolGauge(on bool) float64 {
	if on {
		return 1
	}
	return 0
}
