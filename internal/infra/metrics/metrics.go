// Package metrics exposes game activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts game events. It satisfies the session observer interface.
type Recorder struct {
	registry *prometheus.Registry

	sessionsCreated prometheus.Counter
	sessionsEnded   *prometheus.CounterVec
	sessionsActive  prometheus.Gauge
	finalScore      prometheus.Histogram
	rounds          *prometheus.CounterVec
	guesses         *prometheus.CounterVec
	points          prometheus.Counter
}

// New creates a recorder with its own registry, including the Go runtime and
// process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guess_sessions_created_total",
			Help: "Games created",
		}),
		sessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guess_sessions_ended_total",
			Help: "Games ended, by reason",
		}, []string{"reason"}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "guess_sessions_active",
			Help: "Games currently running",
		}),
		finalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "guess_session_final_score",
			Help:    "Score at the end of a game",
			Buckets: []float64{0, 10, 25, 50, 100, 200, 400},
		}),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guess_rounds_total",
			Help: "Rounds started, by bucket the song came from",
		}, []string{"bucket"}),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guess_guesses_total",
			Help: "Guesses resolved, by outcome and whether it was a second chance",
		}, []string{"outcome", "repeat"}),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guess_points_awarded_total",
			Help: "Points awarded across all games",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.sessionsCreated,
		r.sessionsEnded,
		r.sessionsActive,
		r.finalScore,
		r.rounds,
		r.guesses,
		r.points,
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns the HTTP handler serving the metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) SessionCreated(songs int) {
	r.sessionsCreated.Inc()
	r.sessionsActive.Inc()
}

func (r *Recorder) RoundStarted(repeat bool) {
	bucket := "new"
	if repeat {
		bucket = "repeat"
	}
	r.rounds.WithLabelValues(bucket).Inc()
}

func (r *Recorder) GuessResolved(correct, repeat bool, points int) {
	outcome := "wrong"
	if correct {
		outcome = "correct"
	}
	r.guesses.WithLabelValues(outcome, strconv.FormatBool(repeat)).Inc()
	r.points.Add(float64(points))
}

func (r *Recorder) SessionEnded(reason string, score int) {
	r.sessionsEnded.WithLabelValues(reason).Inc()
	r.sessionsActive.Dec()
	r.finalScore.Observe(float64(score))
}
