package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// CheckTurnsHandler triggers one turn-check sweep outside the poll schedule.
func (s *Server) CheckTurnsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		if err := s.Processor.CheckTurns(isDryRun); err != nil {
			log.Error("Manual turn check failed", "error", err)
			http.Error(w, "Turn check failed", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Turn check completed.")
	}
}

// ListMatchesHandler serves the cached snapshots of every known match.
func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.Snapshots()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get cached snapshots from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(matches); err != nil {
			log.Error("Failed to encode matches to JSON", "error", err)
		}
	}
}

// ListMonitorsHandler serves the active monitors grouped by channel.
func (s *Server) ListMonitorsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		monitors, err := s.Store.AllMonitored()
		if err != nil {
			http.Error(w, "Failed to get monitors", http.StatusInternalServerError)
			log.Error("Failed to get monitors from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(monitors); err != nil {
			log.Error("Failed to encode monitors to JSON", "error", err)
		}
	}
}
