// Package notify formats administrator notices and delivers them through
// an email provider.
package notify

import (
	"context"
	"errors"
	"log/slog"
)

var ErrNoRecipient = errors.New("notification recipient not configured")

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a single message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender only logs messages. It is used when no mail provider is
// configured so local runs still exercise the notification path.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	slog.Info("notification (log only)", "to", msg.To, "subject", msg.Subject)
	return nil
}
