// Package metrics exposes Prometheus counters for registrations, player
// validations, recorded games and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "slotmachine"

// Registration outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Recorder owns a private Prometheus registry. A nil *Recorder is valid and
// records nothing, so services can be built without metrics.
type Recorder struct {
	registry *prometheus.Registry

	registrations   *prometheus.CounterVec
	validations     *prometheus.CounterVec
	games           *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Player registration attempts by outcome.",
		}, []string{"outcome"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Player validations by audit status.",
		}, []string{"status"}),
		games: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_recorded_total",
			Help:      "Recorded game results by audit status.",
		}, []string{"status"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		r.registrations,
		r.validations,
		r.games,
		r.requests,
		r.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordRegistration counts a registration attempt
func (r *Recorder) RecordRegistration(outcome string) {
	if r == nil {
		return
	}
	r.registrations.WithLabelValues(outcome).Inc()
}

// RecordValidation counts a validation by the status of its audit entry.
// Malformed student numbers have no audit entry and use "Invalid".
func (r *Recorder) RecordValidation(status string) {
	if r == nil {
		return
	}
	r.validations.WithLabelValues(status).Inc()
}

// RecordGame counts a recorded game by the status of its audit entry
func (r *Recorder) RecordGame(status string) {
	if r == nil {
		return
	}
	r.games.WithLabelValues(status).Inc()
}

// RecordRequest counts a served HTTP request and observes its latency
func (r *Recorder) RecordRequest(method, route string, code int, duration time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for inspection in tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
