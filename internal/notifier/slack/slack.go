package slack

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/stcase/Wingspan/internal/metrics"
	"github.com/stcase/Wingspan/internal/notifier"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// ChannelResolver maps internal channel keys back to Slack channel IDs.
type ChannelResolver interface {
	ChannelSlackID(channel int64) (string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api            slackClient
	channels       ChannelResolver
	adminChannelID string
	metrics        metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, adminChannelID string, channels ChannelResolver, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:            api,
		channels:       channels,
		adminChannelID: adminChannelID,
		metrics:        metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, adminChannelID string, channels ChannelResolver, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:            api,
		channels:       channels,
		adminChannelID: adminChannelID,
		metrics:        metrics,
	}
}

func (s *Notifier) Send(channel int64, text string, dryRun bool) error {
	slackID, err := s.channels.ChannelSlackID(channel)
	if err != nil {
		return fmt.Errorf("resolving channel %d: %w", channel, err)
	}
	if slackID == "" {
		return fmt.Errorf("channel %d: %w", channel, notifier.ErrChannelNotFound)
	}
	return s.postMessage(slackID, text, dryRun)
}

func (s *Notifier) SendAdmin(text string, dryRun bool) error {
	if s.adminChannelID == "" {
		log.Warn("No admin channel configured, dropping admin message", "message", text)
		return nil
	}
	return s.postMessage(s.adminChannelID, text, dryRun)
}

func (s *Notifier) postMessage(slackID, text string, dryRun bool) error {
	if dryRun {
		log.Info("[Dry Run] Would send Slack message", "channel", slackID, "message", text)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		slackID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotifFailed()
		if isChannelGone(err) {
			log.Warn("Slack channel is gone", "channel", slackID, "error", err)
			return fmt.Errorf("channel %s: %w", slackID, notifier.ErrChannelNotFound)
		}
		log.Error("Failed to send Slack message", "error", err, "channel", slackID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// isChannelGone reports whether the Slack API error means the channel no
// longer accepts messages from us.
func isChannelGone(err error) bool {
	switch err.Error() {
	case "channel_not_found", "is_archived", "not_in_channel":
		return true
	}
	return false
}
