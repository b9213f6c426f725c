package apiclient

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"user-console/internal/domain"
)

var (
	backendReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "console_backend_requests_total", Help: "Count of calls from the console to the user backend"},
		[]string{"op", "outcome"},
	)
	backendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_backend_request_duration_seconds",
			Help:    "Latency of calls from the console to the user backend, retries included",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"},
	)
)

func init() { prometheus.MustRegister(backendReqTotal, backendLatency) }

// observe 用法：defer observe("list", &err)()
func observe(op string, err *error) func() {
	start := time.Now()
	return func() {
		backendLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		backendReqTotal.WithLabelValues(op, outcome(*err)).Inc()
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	}
	var apiErr APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 500 {
			return "server_error"
		}
		return "client_error"
	}
	return "transport_error"
}
