package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		PollRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wingspan_poll_runs_total",
			Help: "The total number of turn-checking sweeps started.",
		}),
		MatchesChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wingspan_matches_checked_total",
			Help: "The total number of monitored matches fetched and classified.",
		}),
		SourceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wingspan_source_errors_total",
			Help: "The total number of failed match fetches from the game API.",
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wingspan_notifications_sent_total",
			Help: "The total number of chat notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wingspan_notifications_failed_total",
			Help: "The total number of chat notifications that failed to send.",
		}),
		CheckDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wingspan_check_duration_seconds",
			Help:    "The duration of individual match checks.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wingspan_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PollRuns,
		s.MatchesChecked,
		s.SourceErrors,
		s.NotifSent,
		s.NotifFailed,
		s.CheckDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncPollRuns() {
	s.PollRuns.Inc()
}

func (s *Service) IncMatchesChecked() {
	s.MatchesChecked.Inc()
}

func (s *Service) IncSourceErrors() {
	s.SourceErrors.Inc()
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) ObserveCheckDuration(duration float64) {
	s.CheckDuration.Observe(duration)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
