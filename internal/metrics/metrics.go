package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the console's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	apiInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "console",
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight backend API calls.",
		},
	)

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of backend API calls by outcome.",
		},
		[]string{"family", "method", "endpoint", "status"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "console",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of backend API calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"family", "method"},
	)

	sessionExpired = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "api",
			Name:      "session_expired_total",
			Help:      "Number of 401 responses that forced a logout.",
		},
		[]string{"family"},
	)

	conflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "api",
			Name:      "conflicts_total",
			Help:      "Number of business-rule conflicts (409) returned by coin deduction.",
		},
		[]string{"operation"},
	)

	dashboardRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "watch",
			Name:      "refreshes_total",
			Help:      "Scheduled dashboard refreshes by result.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		apiInFlight,
		apiRequests,
		apiDuration,
		sessionExpired,
		conflicts,
		dashboardRefreshes,
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// StartCall marks a call in flight and returns the function that records its outcome.
// status 0 means no response was received.
func StartCall(family, method, path string) func(status int) {
	start := time.Now()
	apiInFlight.Inc()
	return func(status int) {
		apiInFlight.Dec()
		if family == "" {
			family = "unknown"
		}
		label := "error"
		if status > 0 {
			label = strconv.Itoa(status)
		}
		method = strings.ToUpper(method)
		apiRequests.WithLabelValues(family, method, canonicalPath(path), label).Inc()
		apiDuration.WithLabelValues(family, method).Observe(time.Since(start).Seconds())
	}
}

// RecordSessionExpired counts a forced logout.
func RecordSessionExpired(family string) {
	if family == "" {
		family = "unknown"
	}
	sessionExpired.WithLabelValues(family).Inc()
}

// RecordConflict counts a 409 business outcome.
func RecordConflict(operation string) {
	conflicts.WithLabelValues(operation).Inc()
}

// RecordRefresh counts one scheduled dashboard refresh.
func RecordRefresh(success bool) {
	dashboardRefreshes.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// canonicalPath replaces identifier segments so label cardinality stays bounded.
// Route templates pass through with their {param} segments collapsed to :id.
func canonicalPath(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	for i, p := range parts {
		if looksLikeID(p) {
			parts[i] = ":id"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func looksLikeID(seg string) bool {
	if seg == "" {
		return false
	}
	if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
		return true
	}
	if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
		return true
	}
	if _, err := uuid.Parse(seg); err == nil {
		return true
	}
	// mongo-style object ids
	if len(seg) == 24 && isHex(seg) {
		return true
	}
	// any other segment carrying a digit is a business key (TX-2024-0001), except
	// the version prefix
	return strings.ContainsAny(seg, "0123456789") && !isVersion(seg)
}

func isVersion(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(seg[1:])
	return err == nil
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
