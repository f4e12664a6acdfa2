package notifier

import "errors"

// ErrChannelNotFound signals that the destination channel no longer exists
// or the bot was removed from it. Callers treat it as a cue to stop
// monitoring for that channel rather than as a transient failure.
var ErrChannelNotFound = errors.New("channel not found")

// Notifier defines a high-level interface for delivering turn notifications.
// This decouples the rest of the application from the specific notification
// provider (e.g., Slack).
type Notifier interface {
	// Send posts a message to the channel identified by its internal key.
	Send(channel int64, text string, dryRun bool) error
	// SendAdmin posts an operational alert to the admin channel.
	SendAdmin(text string, dryRun bool) error
}
