package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/adrianoneco/userdir/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "userdir",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userdir",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// Secondary-collaborator outcomes. Failures here never fail the
	// parent operation, so the counters are how they stay visible.

	AvatarUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userdir",
		Name:      "avatar_uploads_total",
		Help:      "Avatar uploads to object storage, by outcome.",
	}, []string{"outcome"})

	ActivityAppendsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userdir",
		Name:      "activity_appends_total",
		Help:      "Activity log appends, by outcome.",
	}, []string{"outcome"})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		AvatarUploadsTotal,
		ActivityAppendsTotal,
	)
}

// NewServer serves /metrics plus the liveness and readiness probes on the
// operational port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
