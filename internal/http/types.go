package http

import (
	"net/http"

	"github.com/stcase/Wingspan/internal/config"
	"github.com/stcase/Wingspan/internal/metrics"
	"github.com/stcase/Wingspan/internal/notifier"
	"github.com/stcase/Wingspan/internal/processor"
	"github.com/stcase/Wingspan/internal/stats"
	"github.com/stcase/Wingspan/internal/tracker"
	"github.com/stcase/Wingspan/internal/wingspan"
)

type Server struct {
	Store          tracker.Store
	Stats          *stats.Service
	Processor      *processor.Processor
	Source         wingspan.Client
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
