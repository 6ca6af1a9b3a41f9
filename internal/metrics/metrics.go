package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "eosc"

	DecodeFrame  = "frame"
	DecodeOSC    = "osc"
	DecodeBundle = "bundle"

	OutcomeResolved  = "resolved"
	OutcomeRejected  = "rejected"
	OutcomeMissing   = "missing"
	OutcomeCancelled = "cancelled"
)

// Metrics holds the collectors shared by the transport, the request manager
// and the console. A nil *Metrics is valid and records nothing.
type Metrics struct {
	framesRead      prometheus.Counter
	framesWritten   prometheus.Counter
	decodeErrors    *prometheus.CounterVec
	listJoinErrors  prometheus.Counter
	connections     prometheus.Gauge
	pendingRequests prometheus.Gauge
	requestsSettled *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	droppedNotifies prometheus.Counter
}

// New registers the collectors with reg. Use a fresh prometheus.Registry per
// instance, registering twice with the same registerer panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		framesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "transport",
			Name:      "frames_read_total",
			Help:      "Total number of SLIP frames read from the console",
		}),

		framesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "transport",
			Name:      "frames_written_total",
			Help:      "Total number of SLIP frames written to the console",
		}),

		decodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "transport",
			Name:      "decode_errors_total",
			Help:      "Total number of frames dropped because they could not be decoded",
		}, []string{"kind"}),

		listJoinErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "transport",
			Name:      "list_join_errors_total",
			Help:      "Total number of logical messages lost to list convention violations",
		}),

		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "transport",
			Name:      "connections",
			Help:      "Number of open connections",
		}),

		pendingRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "request",
			Name:      "pending",
			Help:      "Number of requests waiting for responses",
		}),

		requestsSettled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "request",
			Name:      "settled_total",
			Help:      "Total number of settled requests by outcome",
		}, []string{"outcome"}),

		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "console",
			Name:      "notifications_total",
			Help:      "Total number of notifications decoded by kind",
		}, []string{"kind"}),

		droppedNotifies: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "console",
			Name:      "notifications_dropped_total",
			Help:      "Total number of notifications dropped because the consumer fell behind",
		}),
	}
}

func (m *Metrics) FrameRead() {
	if m != nil {
		m.framesRead.Inc()
	}
}

func (m *Metrics) FrameWritten() {
	if m != nil {
		m.framesWritten.Inc()
	}
}

func (m *Metrics) DecodeError(kind string) {
	if m != nil {
		m.decodeErrors.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) ListJoinError() {
	if m != nil {
		m.listJoinErrors.Inc()
	}
}

func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.connections.Inc()
	}
}

func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.connections.Dec()
	}
}

func (m *Metrics) SetPending(n int) {
	if m != nil {
		m.pendingRequests.Set(float64(n))
	}
}

func (m *Metrics) RequestSettled(outcome string) {
	if m != nil {
		m.requestsSettled.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Notification(kind string) {
	if m != nil {
		m.notifications.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) NotificationDropped() {
	if m != nil {
		m.droppedNotifies.Inc()
	}
}
