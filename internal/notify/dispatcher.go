package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/getsentry/sentry-go"
)

const (
	KindReportCreated = "report_created"
	KindReminder      = "reminder"

	defaultSendTimeout = 30 * time.Second
)

// Dispatcher sends administrator notices. Failures are logged and counted
// but never returned to the operation that triggered them.
type Dispatcher struct {
	sender  Sender
	to      string
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, to string) *Dispatcher {
	if sender == nil {
		sender = LogSender{}
	}
	return &Dispatcher{
		sender:  sender,
		to:      to,
		timeout: defaultSendTimeout,
	}
}

// Send delivers msg synchronously and reports the outcome.
func (d *Dispatcher) Send(ctx context.Context, kind string, msg Message) error {
	if msg.To == "" {
		msg.To = d.to
	}

	err := d.sender.Send(ctx, msg)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(kind, "failed").Inc()
		slog.Error("notification failed", "action", kind, "subject", msg.Subject, "error", err)
		sentry.CaptureException(err)
		return err
	}
	metrics.NotificationsSent.WithLabelValues(kind, "sent").Inc()
	return nil
}

// Dispatch sends msg on its own goroutine with a detached context so the
// caller's request lifetime does not cut delivery short.
func (d *Dispatcher) Dispatch(kind string, msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		_ = d.Send(ctx, kind, msg)
	}()
}

// ReportCreated queues the new-report notice.
func (d *Dispatcher) ReportCreated(r *models.Report) {
	msg, err := ReportCreatedMessage(d.to, r)
	if err != nil {
		slog.Error("render report notification", "report_id", r.ID.String(), "error", err)
		return
	}
	d.Dispatch(KindReportCreated, msg)
}

// Remind sends the pending-report reminder synchronously.
func (d *Dispatcher) Remind(ctx context.Context, r *models.Report) error {
	msg, err := ReminderMessage(d.to, r)
	if err != nil {
		return err
	}
	return d.Send(ctx, KindReminder, msg)
}

// Wait blocks until queued notifications finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
