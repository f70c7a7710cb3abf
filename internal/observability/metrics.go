package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Relay direction labels.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Refresh outcome labels.
const (
	RefreshGranted = "granted"
	RefreshDenied  = "denied"
)

var (
	registerOnce sync.Once

	relayFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "omega",
			Subsystem: "relay",
			Name:      "frames_total",
			Help:      "Frames relayed between the gateway and the internal endpoints.",
		},
		[]string{"direction"},
	)
	relayBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "omega",
			Subsystem: "relay",
			Name:      "bytes_total",
			Help:      "Payload bytes relayed between the gateway and the internal endpoints.",
		},
		[]string{"direction"},
	)
	requestsEnqueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "omega",
			Subsystem: "sender",
			Name:      "requests_total",
			Help:      "Requests built and queued, by kind.",
		},
		[]string{"kind"},
	)
	encodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "omega",
			Subsystem: "sender",
			Name:      "encode_failures_total",
			Help:      "Queued requests dropped because encoding failed.",
		},
	)
	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "omega",
			Subsystem: "sender",
			Name:      "outbound_queue_depth",
			Help:      "Requests waiting in the outbound queue.",
		},
	)
	dispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "omega",
			Subsystem: "receiver",
			Name:      "dispatch_total",
			Help:      "Responses dispatched to handlers, by kind.",
		},
		[]string{"kind"},
	)
	decodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "omega",
			Subsystem: "receiver",
			Name:      "decode_failures_total",
			Help:      "Inbound frames dropped because decoding failed.",
		},
	)
	unknownKinds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "omega",
			Subsystem: "receiver",
			Name:      "unknown_kind_total",
			Help:      "Inbound frames carrying a kind outside the registry.",
		},
	)
	refreshOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "omega",
			Subsystem: "session",
			Name:      "refresh_total",
			Help:      "Authorization grant outcomes.",
		},
		[]string{"outcome"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "omega",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "omega",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			relayFrames, relayBytes,
			requestsEnqueued, encodeFailures, queueDepth,
			dispatched, decodeFailures, unknownKinds,
			refreshOutcomes,
			httpRequests, httpDuration,
		)
	})
}

func RecordRelayFrame(direction string, bytes int) {
	RegisterMetrics()
	relayFrames.WithLabelValues(direction).Inc()
	relayBytes.WithLabelValues(direction).Add(float64(bytes))
}

func RecordRequestEnqueued(kind string) {
	RegisterMetrics()
	requestsEnqueued.WithLabelValues(kind).Inc()
}

func RecordEncodeFailure() {
	RegisterMetrics()
	encodeFailures.Inc()
}

func SetOutboundQueueDepth(depth int) {
	RegisterMetrics()
	queueDepth.Set(float64(depth))
}

func RecordDispatch(kind string) {
	RegisterMetrics()
	dispatched.WithLabelValues(kind).Inc()
}

func RecordDecodeFailure() {
	RegisterMetrics()
	decodeFailures.Inc()
}

func RecordUnknownKind() {
	RegisterMetrics()
	unknownKinds.Inc()
}

func RecordRefresh(outcome string) {
	RegisterMetrics()
	refreshOutcomes.WithLabelValues(outcome).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
