package processor

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stcase/Wingspan/internal/metrics"
	"github.com/stcase/Wingspan/internal/notifier"
	"github.com/stcase/Wingspan/internal/wingspan"
)

// New creates a new Processor.
func New(store Store, source wingspan.Client, notifier Notifier, metrics metrics.Metrics) *Processor {
	return &Processor{
		store:    store,
		source:   source,
		notifier: notifier,
		metrics:  metrics,
	}
}

// CheckTurns runs one full sweep over every monitored match. Fetch failures
// are handled per match; a lost channel removes all of that channel's
// monitors. Anything else, like an invalid snapshot, aborts the sweep and is
// reported by the caller.
func (p *Processor) CheckTurns(dryRun bool) error {
	log.Info("Starting turn check sweep...")
	monitored, err := p.store.AllMonitored()
	if err != nil {
		return fmt.Errorf("listing monitored matches: %w", err)
	}

	if len(monitored) == 0 {
		log.Info("No matches monitored.")
		return nil
	}

	channels := make([]int64, 0, len(monitored))
	for channel := range monitored {
		channels = append(channels, channel)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })

	for _, channel := range channels {
		for _, matchID := range monitored[channel] {
			start := time.Now()
			snap := p.fetchSnapshot(channel, matchID)
			err := p.checkMatch(channel, snap, dryRun)
			p.metrics.ObserveCheckDuration(time.Since(start).Seconds())

			if errors.Is(err, notifier.ErrChannelNotFound) {
				p.channelNotFound(channel, dryRun)
				break
			}
			if err != nil {
				return fmt.Errorf("checking match %s for channel %d: %w", matchID, channel, err)
			}
		}
	}
	log.Info("Turn check sweep finished.")
	return nil
}

// CheckChannel reports the current status of every match monitored on the
// channel, regardless of what was sent before. Returns the number of
// matches checked.
func (p *Processor) CheckChannel(channel int64, dryRun bool) (int, error) {
	matchIDs, err := p.store.MonitoredMatches(channel, true)
	if err != nil {
		return 0, err
	}
	for _, matchID := range matchIDs {
		snap := p.fetchSnapshot(channel, matchID)
		if err := p.NotifyMatch(channel, snap, dryRun); err != nil {
			return 0, err
		}
	}
	return len(matchIDs), nil
}

// NotifyMatch classifies the snapshot, sends the notification and appends
// the history record.
func (p *Processor) NotifyMatch(channel int64, snap Snapshot, dryRun bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notifyMatchLocked(channel, snap, dryRun)
}

// checkMatch runs the decide-send-record sequence for one snapshot under
// the processor lock, so an interleaved manual check cannot double-send.
func (p *Processor) checkMatch(channel int64, snap Snapshot, dryRun bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	notify, err := p.ShouldNotify(channel, snap)
	if err != nil {
		return err
	}
	if !notify {
		log.Debug("No state change, skipping notification", "channel", channel, "matchID", snap.MatchID)
		return nil
	}
	return p.notifyMatchLocked(channel, snap, dryRun)
}

func (p *Processor) notifyMatchLocked(channel int64, snap Snapshot, dryRun bool) error {
	kind, err := Classify(snap)
	if err != nil {
		return err
	}
	text, err := p.formatMessage(channel, snap, kind)
	if err != nil {
		return err
	}
	if err := p.notifier.Send(channel, text, dryRun); err != nil {
		return err
	}
	if err := p.store.AddMessage(channel, snap.MatchID, snap.PlayerTurn(), kind); err != nil {
		return fmt.Errorf("recording notification for match %s: %w", snap.MatchID, err)
	}
	log.Info("Sent notification", "channel", channel, "matchID", snap.MatchID, "kind", kind)
	return nil
}

// fetchSnapshot fetches a fresh match state. Failures degrade to a failure
// snapshot instead of aborting, and successful fetches refresh the score
// ledger and snapshot cache whether or not a notification fires.
func (p *Processor) fetchSnapshot(channel int64, matchID string) Snapshot {
	match, err := p.source.GetMatch(matchID)
	if err != nil {
		log.Error("Failed to fetch match", "error", err, "channel", channel, "matchID", matchID)
		p.metrics.IncSourceErrors()
		return Snapshot{MatchID: matchID}
	}

	p.metrics.IncMatchesChecked()
	if err := p.store.UpsertScores(&match); err != nil {
		log.Error("Failed to update score ledger", "error", err, "matchID", matchID)
	}
	if err := p.store.UpsertSnapshot(&match); err != nil {
		log.Error("Failed to cache snapshot", "error", err, "matchID", matchID)
	}
	return Snapshot{MatchID: matchID, Match: &match}
}

// channelNotFound soft-deletes every monitor on a channel we can no longer
// reach and leaves a trail in the admin channel.
func (p *Processor) channelNotFound(channel int64, dryRun bool) {
	log.Warn("Channel not found, removing its monitors", "channel", channel)
	if err := p.notifier.SendAdmin(fmt.Sprintf("Channel %d not found. Removing matches from channel...", channel), dryRun); err != nil {
		log.Error("Failed to send admin message", "error", err)
	}

	matchIDs, err := p.store.MonitoredMatches(channel, true)
	if err != nil {
		log.Error("Failed to list monitors for lost channel", "error", err, "channel", channel)
		return
	}
	for _, matchID := range matchIDs {
		if _, err := p.store.RemoveMonitor(channel, matchID); err != nil {
			log.Error("Failed to remove monitor for lost channel", "error", err, "channel", channel, "matchID", matchID)
			continue
		}
		if err := p.notifier.SendAdmin(fmt.Sprintf(" Removed match %s", matchID), dryRun); err != nil {
			log.Error("Failed to send admin message", "error", err)
		}
	}
}
