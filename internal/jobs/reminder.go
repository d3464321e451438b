package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"golang.org/x/time/rate"
)

const reminderLockKey = "reminder-sweep"

type StaleReportFinder interface {
	ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Report, error)
}

type Reminder interface {
	Remind(ctx context.Context, report *models.Report) error
}

// Locker grants a single holder per key for ttl.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type SweepResult struct {
	Matched int  `json:"matched"`
	Sent    int  `json:"sent"`
	Failed  int  `json:"failed"`
	Skipped bool `json:"skipped,omitempty"`
}

// ReminderSweep re-notifies administrators about reports that have stayed
// pending longer than the threshold. It never changes report state, so a
// report is reminded on every run until someone acts on it.
type ReminderSweep struct {
	reports   StaleReportFinder
	reminder  Reminder
	threshold time.Duration
	limiter   *rate.Limiter
	locker    Locker
	lockTTL   time.Duration
	dryRun    bool
}

// NewReminderSweep paces sends at perSecond; zero or less disables pacing.
func NewReminderSweep(reports StaleReportFinder, reminder Reminder, threshold time.Duration, perSecond float64) *ReminderSweep {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &ReminderSweep{
		reports:   reports,
		reminder:  reminder,
		threshold: threshold,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// WithLock makes each run take a shared lock so replicas sharing a store
// do not send the same reminders within ttl.
func (s *ReminderSweep) WithLock(locker Locker, ttl time.Duration) *ReminderSweep {
	s.locker = locker
	s.lockTTL = ttl
	return s
}

// WithDryRun reports matches without sending anything.
func (s *ReminderSweep) WithDryRun(dryRun bool) *ReminderSweep {
	s.dryRun = dryRun
	return s
}

// Run sends one reminder per report with status pending and created at or
// before now minus the threshold. A failed send is counted and the sweep
// moves on to the next report.
func (s *ReminderSweep) Run(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, reminderLockKey, s.lockTTL)
		if err != nil {
			slog.Warn("reminder lock unavailable, running unlocked", "error", err.Error())
		} else if !ok {
			slog.Info("reminder sweep skipped, another instance holds the lock")
			metrics.SweepRuns.WithLabelValues("skipped").Inc()
			result.Skipped = true
			return result, nil
		}
	}

	cutoff := now.UTC().Add(-s.threshold)
	reports, err := s.reports.ListStalePending(ctx, cutoff)
	if err != nil {
		metrics.SweepRuns.WithLabelValues("error").Inc()
		return result, err
	}
	result.Matched = len(reports)
	metrics.SweepMatched.Add(float64(len(reports)))

	for i := range reports {
		report := &reports[i]
		if s.dryRun {
			slog.Info("reminder (dry run)", "report_id", report.ID.String(), "reported_by", report.ReportedBy)
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			metrics.SweepRuns.WithLabelValues("error").Inc()
			return result, err
		}
		if err := s.reminder.Remind(ctx, report); err != nil {
			result.Failed++
			slog.Error("reminder failed", "action", "reminder", "report_id", report.ID.String(), "error", err)
			continue
		}
		result.Sent++
	}

	metrics.SweepRuns.WithLabelValues("ok").Inc()
	slog.Info("reminder sweep finished",
		"matched", result.Matched,
		"sent", result.Sent,
		"failed", result.Failed,
		"cutoff", cutoff.Format(time.RFC3339),
	)
	return result, nil
}
