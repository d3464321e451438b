package notify

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/httpx"
)

// NewSender returns the Resend sender when an API key is configured and a
// log-only sender otherwise.
func NewSender(cfg *config.Config) Sender {
	if cfg.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, notifications will only be logged")
		return LogSender{}
	}
	return NewResendSender(httpx.NewClient(15*time.Second), cfg.ResendAPIURL, cfg.ResendAPIKey, cfg.MailFrom)
}
