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

func NewServer(store tracker.Store, statsSvc *stats.Service, proc *processor.Processor, source wingspan.Client, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Stats:          statsSvc,
		Processor:      proc,
		Source:         source,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), requestIDMiddleware, paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/check", Chain(s.CheckTurnsHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/monitors", Chain(s.ListMonitorsHandler(), requestIDMiddleware, paramsMiddleware))

	slashCommands := map[string]http.HandlerFunc{
		"/slack/command/add":         s.AddCommandHandler(),
		"/slack/command/remove":      s.RemoveCommandHandler(),
		"/slack/command/subscribe":   s.SubscribeCommandHandler(),
		"/slack/command/unsubscribe": s.UnsubscribeCommandHandler(),
		"/slack/command/turn":        s.TurnCommandHandler(),
		"/slack/command/stats":       s.StatsCommandHandler(),
		"/slack/command/timings":     s.TimingsCommandHandler(),
		"/slack/command/games":       s.GamesCommandHandler(),
	}
	for path, handler := range slashCommands {
		s.Router.Handle(path, Chain(handler, requestIDMiddleware, paramsMiddleware, s.verifySlackSignature))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
