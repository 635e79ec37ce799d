// Package telemetry holds the Prometheus metrics of a murmur node. They are
// registered on a private Registry and exposed by the service package.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reasons used to label RecordsDropped.
const (
	DropDecode     = "decode"
	DropSequence   = "sequence"
	DropUnexpected = "unexpected"
	DropEncode     = "encode"
	DropClosed     = "closed"
)

var (
	Registry = prometheus.NewRegistry()

	MessagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "murmur",
			Name:      "messages_received_total",
			Help:      "Inbound records decoded, by body type.",
		},
		[]string{"type"},
	)

	MessagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "murmur",
			Name:      "messages_sent_total",
			Help:      "Outbound records written, by body type.",
		},
		[]string{"type"},
	)

	RecordsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "murmur",
			Name:      "records_dropped_total",
			Help:      "Records dropped without being processed or written.",
		},
		[]string{"reason"},
	)

	HandleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "murmur",
			Name:      "handle_duration_seconds",
			Help:      "Time spent dispatching one inbound message.",
			// 10us .. ~160ms
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		},
		[]string{"type"},
	)

	OutboundQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "murmur",
			Name:      "outbound_queue_depth",
			Help:      "Records waiting to be written.",
		},
	)

	GossipRounds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "murmur",
			Name:      "gossip_rounds_total",
			Help:      "Gossip timer ticks handled while running.",
		},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "murmur",
			Name:      "http_requests_total",
			Help:      "Requests served by the stats service.",
		},
		[]string{"op", "status"},
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "murmur",
			Name:      "build_info",
			Help:      "Build info (constant 1, labeled by version and workload).",
		},
		[]string{"version", "workload"},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "murmur",
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(
		MessagesReceived,
		MessagesSent,
		RecordsDropped,
		HandleDuration,
		OutboundQueueDepth,
		GossipRounds,
		HTTPRequests,
		buildInfo,
		uptime,
	)
}

// MetricsHandler exposes the Registry in the Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// SetBuildInfo should be called once at startup.
func SetBuildInfo(version, workload string) {
	buildInfo.WithLabelValues(version, workload).Set(1)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Instrument wraps next to count requests under the given op label.
func Instrument(op string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		class := strconv.Itoa(sw.status/100) + "xx"
		HTTPRequests.WithLabelValues(op, class).Inc()
	})
}
