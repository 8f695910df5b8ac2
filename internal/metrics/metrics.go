// Package metrics holds the Prometheus instrumentation for the
// signaling service, exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections tracks currently open signaling connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "peersignal",
		Name:      "active_connections",
		Help:      "Number of open signaling connections.",
	})

	// ActiveRooms tracks rooms with at least one member.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "peersignal",
		Name:      "active_rooms",
		Help:      "Number of session rooms with at least one member.",
	})

	// MessagesRelayed counts inbound messages accepted by the relay,
	// labeled by kind.
	MessagesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peersignal",
		Name:      "messages_relayed_total",
		Help:      "Inbound signaling messages processed, by kind.",
	}, []string{"kind"})

	// DeliveryErrors counts failed sends to individual peers during
	// broadcast fan-out. A failed peer is skipped, never retried.
	DeliveryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "peersignal",
		Name:      "delivery_errors_total",
		Help:      "Failed event deliveries to individual peers.",
	})

	// ValidationErrors counts malformed or incomplete inbound messages
	// answered with a typed error event.
	ValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "peersignal",
		Name:      "validation_errors_total",
		Help:      "Inbound messages rejected by validation.",
	})

	// LivenessFailures counts liveness monitors stopped by a failed
	// ping send.
	LivenessFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "peersignal",
		Name:      "liveness_failures_total",
		Help:      "Liveness monitors stopped after a failed ping send.",
	})

	// JoinsRejected counts connection attempts refused before a room
	// join, labeled by reason.
	JoinsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peersignal",
		Name:      "joins_rejected_total",
		Help:      "Connection attempts refused before joining a room.",
	}, []string{"reason"})
)
