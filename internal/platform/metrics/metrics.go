// Package metrics holds the Prometheus collectors shared by the scorer and the API
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "combatscore"

var (
	// RunsTotal counts finished runs.
	// Labels: heuristic, result (hit, computed, error)
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "run",
		Name:      "total",
		Help:      "Finished scoring runs by outcome",
	}, []string{"heuristic", "result"})

	// RunDuration measures run wall time.
	// Labels: heuristic
	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "run",
		Name:      "duration_seconds",
		Help:      "Scoring run wall time in seconds",
		Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
	}, []string{"heuristic"})

	// PhaseDuration measures each run phase.
	// Labels: phase
	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "run",
		Name:      "phase_seconds",
		Help:      "Time spent per run phase in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"phase"})

	// UnitsScored counts units scored.
	// Labels: heuristic
	UnitsScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "units_total",
		Help:      "Units scored",
	}, []string{"heuristic"})

	// UnitsInFlight is the number of units currently being scored
	UnitsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "units_in_flight",
		Help:      "Units currently being scored",
	})

	// EventsRead counts decoded events
	EventsRead = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "eventlog",
		Name:      "events_total",
		Help:      "Events decoded from combat logs",
	})

	// CorruptFiles counts log files abandoned on a container error
	CorruptFiles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "eventlog",
		Name:      "corrupt_files_total",
		Help:      "Log files abandoned because the gzip container was unreadable",
	})

	// Publishes counts sink publications.
	// Labels: sink, status (ok, error)
	Publishes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "publish",
		Name:      "total",
		Help:      "Result table publications by sink",
	}, []string{"sink", "status"})

	// APIRequests counts API requests.
	// Labels: route, code
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "API requests by route pattern and status code",
	}, []string{"route", "code"})
)

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }

// Status returns "ok" or "error" for a label
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
