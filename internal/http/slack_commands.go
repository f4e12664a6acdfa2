package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg writes a slash command response as JSON.
func respondWithSlackMsg(w http.ResponseWriter, msg *slack.Msg) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// respondInChannel posts a visible reply to the channel the command came from.
func respondInChannel(w http.ResponseWriter, text string) {
	respondWithSlackMsg(w, &slack.Msg{ResponseType: slack.ResponseTypeInChannel, Text: text})
}

// respondEphemeral replies only to the invoking user.
func respondEphemeral(w http.ResponseWriter, text string) {
	respondWithSlackMsg(w, &slack.Msg{ResponseType: slack.ResponseTypeEphemeral, Text: text})
}

// parseCommand decodes a slash command and resolves its channel to the
// internal key, registering the channel on first contact.
func (s *Server) parseCommand(w http.ResponseWriter, r *http.Request) (slack.SlashCommand, int64, bool) {
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		log.Error("Failed to parse slash command", "error", err)
		http.Error(w, "Error parsing command", http.StatusBadRequest)
		return cmd, 0, false
	}

	channel, err := s.Store.RegisterChannel(cmd.ChannelID)
	if err != nil {
		log.Error("Failed to register channel", "error", err, "slackChannel", cmd.ChannelID)
		http.Error(w, "Failed to resolve channel", http.StatusInternalServerError)
		return cmd, 0, false
	}
	return cmd, channel, true
}

// AddCommandHandler starts monitoring a match on the command's channel.
func (s *Server) AddCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, channel, ok := s.parseCommand(w, r)
		if !ok {
			return
		}
		gameID := strings.TrimSpace(cmd.Text)
		if gameID == "" {
			respondEphemeral(w, "Usage: /add <match id>")
			return
		}

		// An unknown ID should fail here, not on every later poll.
		if _, err := s.Source.GetMatch(gameID); err != nil {
			log.Warn("Refusing to monitor unknown match", "error", err, "matchID", gameID)
			respondEphemeral(w, fmt.Sprintf("Exception while adding match %s, maybe an invalid ID? - check the logs", gameID))
			return
		}

		added, err := s.Store.AddMonitor(channel, gameID)
		if err != nil {
			log.Error("Failed to add monitor", "error", err, "matchID", gameID)
			respondEphemeral(w, fmt.Sprintf("Exception while adding match %s - check the logs", gameID))
			return
		}
		if added {
			respondInChannel(w, fmt.Sprintf("Now monitoring %s", gameID))
		} else {
			respondInChannel(w, fmt.Sprintf("Already monitoring %s", gameID))
		}
	}
}

// RemoveCommandHandler stops monitoring a match on the command's channel.
func (s *Server) RemoveCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, channel, ok := s.parseCommand(w, r)
		if !ok {
			return
		}
		gameID := strings.TrimSpace(cmd.Text)
		if gameID == "" {
			respondEphemeral(w, "Usage: /remove <match id>")
			return
		}

		removed, err := s.Store.RemoveMonitor(channel, gameID)
		if err != nil {
			log.Error("Failed to remove monitor", "error", err, "matchID", gameID)
			respondEphemeral(w, fmt.Sprintf("Exception while removing match %s - check the logs", gameID))
			return
		}
		if removed {
			respondInChannel(w, fmt.Sprintf("No longer monitoring %s", gameID))
		} else {
			respondInChannel(w, fmt.Sprintf("Not monitoring %s", gameID))
		}
	}
}

// SubscribeCommandHandler tags the user whenever the named player's turn
// comes up on this channel.
func (s *Server) SubscribeCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, channel, ok := s.parseCommand(w, r)
		if !ok {
			return
		}
		name := strings.TrimSpace(cmd.Text)
		if name == "" {
			respondEphemeral(w, "Usage: /subscribe <wingspan username>")
			return
		}

		added, err := s.Store.Subscribe(channel, cmd.UserID, name)
		if err != nil {
			log.Error("Failed to subscribe", "error", err, "name", name)
			respondEphemeral(w, fmt.Sprintf("Exception while subscribing to %s - check the logs", name))
			return
		}
		if added {
			respondInChannel(w, fmt.Sprintf("Now notifying %s for %s", cmd.UserName, name))
		} else {
			respondInChannel(w, fmt.Sprintf("Already subscribed to %s", name))
		}
	}
}

func (s *Server) UnsubscribeCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, channel, ok := s.parseCommand(w, r)
		if !ok {
			return
		}
		name := strings.TrimSpace(cmd.Text)
		if name == "" {
			respondEphemeral(w, "Usage: /unsubscribe <wingspan username>")
			return
		}

		removed, err := s.Store.Unsubscribe(channel, cmd.UserID, name)
		if err != nil {
			log.Error("Failed to unsubscribe", "error", err, "name", name)
			respondEphemeral(w, fmt.Sprintf("Exception while unsubscribing from %s - check the logs", name))
			return
		}
		if removed {
			respondInChannel(w, fmt.Sprintf("No longer notifying for %s", name))
		} else {
			respondInChannel(w, fmt.Sprintf("Not subscribed to %s", name))
		}
	}
}

// TurnCommandHandler re-reports the current state of every match the channel
// monitors. The reports are posted by the notifier; the command reply just
// confirms the check.
func (s *Server) TurnCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, channel, ok := s.parseCommand(w, r)
		if !ok {
			return
		}

		checked, err := s.Processor.CheckChannel(channel, isDryRunFromContext(r))
		if err != nil {
			log.Error("Turn command failed", "error", err, "channel", channel)
			respondEphemeral(w, "Exception while checking turns - check the logs")
			return
		}
		if checked == 0 {
			respondInChannel(w, "No matches found for this channel")
			return
		}
		respondEphemeral(w, fmt.Sprintf("Checked %d matches", checked))
	}
}

// StatsCommandHandler reports the fastest player and the score leaderboards,
// channel-wide or for one match.
func (s *Server) StatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, channel, ok := s.parseCommand(w, r)
		if !ok {
			return
		}
		gameID := strings.TrimSpace(cmd.Text)

		var header string
		if gameID != "" {
			header = fmt.Sprintf("Stats for %s ", gameID)
		} else {
			ever, err := s.Store.MonitoredMatches(channel, false)
			if err != nil {
				log.Error("Failed to list monitored matches", "error", err, "channel", channel)
				respondEphemeral(w, "Exception while getting stats - check the logs")
				return
			}
			header = fmt.Sprintf("Global channel data:\n%d matches monitored ", len(ever))
		}

		start, err := s.Store.DataStart(channel, gameID)
		if err != nil {
			log.Error("Failed to get data start", "error", err, "channel", channel)
			respondEphemeral(w, "Exception while getting stats - check the logs")
			return
		}
		header += fmt.Sprintf("since %s\n", formatDataStart(start))

		fastest, err := s.Stats.FastestPlayer(channel, gameID)
		if err != nil {
			log.Error("Failed to compute fastest player", "error", err, "channel", channel)
			respondEphemeral(w, "Exception while getting stats - check the logs")
			return
		}
		scores, err := s.Stats.HighestScores(channel, gameID)
		if err != nil {
			log.Error("Failed to compute leaderboards", "error", err, "channel", channel)
			respondEphemeral(w, "Exception while getting stats - check the logs")
			return
		}

		respondInChannel(w, header+"```"+fastest.String()+scores.String()+"```")
	}
}

func formatDataStart(start *time.Time) string {
	if start == nil {
		return "None"
	}
	return start.UTC().Format("2006-01-02 15:04:05")
}

// TimingsCommandHandler reports when each player usually plays.
func (s *Server) TimingsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, channel, ok := s.parseCommand(w, r)
		if !ok {
			return
		}
		gameID := strings.TrimSpace(cmd.Text)

		timings, err := s.Stats.PlayerTurnTimings(channel, gameID)
		if err != nil {
			log.Error("Failed to compute turn timings", "error", err, "channel", channel)
			respondEphemeral(w, "Exception while getting turn timings - check the logs")
			return
		}
		respondInChannel(w, "```"+timings.String()+"```")
	}
}

// GamesCommandHandler lists the bot account's active matches at the source.
func (s *Server) GamesCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := s.parseCommand(w, r); !ok {
			return
		}

		matches, err := s.Source.GetMatches()
		if err != nil {
			log.Error("Failed to list matches", "error", err)
			respondEphemeral(w, "Exception while listing games - check the logs")
			return
		}
		if len(matches) == 0 {
			respondInChannel(w, "No active games found")
			return
		}

		var b strings.Builder
		b.WriteString("Active games:\n")
		for _, match := range matches {
			fmt.Fprintf(&b, "%s: %s\n", match.MatchID, match.State)
		}
		respondInChannel(w, b.String())
	}
}
