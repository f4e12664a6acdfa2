package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	PollRuns           prometheus.Counter
	MatchesChecked     prometheus.Counter
	SourceErrors       prometheus.Counter
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	CheckDuration      prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}
