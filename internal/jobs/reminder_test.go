package jobs

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/notify"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/repository"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/testutil"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	mu     sync.Mutex
	sent   []notify.Message
	failOn map[string]bool
}

func (s *captureSender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.failOn {
		if strings.Contains(msg.Text, id) {
			return errors.New("mailbox unavailable")
		}
	}
	s.sent = append(s.sent, msg)
	return nil
}

func seed(t *testing.T, repo *repository.ReportRepository, status models.ReportStatus, createdAt time.Time) *models.Report {
	t.Helper()
	r := &models.Report{
		ChatID:      uuid.New(),
		ReportedBy:  gofakeit.Email(),
		Reason:      "Bot is not responding",
		Description: gofakeit.Sentence(8),
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestReminderSweep_StaleReportOnly(t *testing.T) {
	repo := repository.NewReportRepository(testutil.NewDB(t))
	sender := &captureSender{}
	dispatcher := notify.NewDispatcher(sender, "admin@example.com")
	now := time.Now().UTC()

	stale := seed(t, repo, models.ReportPending, now.Add(-4*time.Hour))
	seed(t, repo, models.ReportPending, now.Add(-time.Hour))

	sweep := NewReminderSweep(repo, dispatcher, 3*time.Hour, 0)
	result, err := sweep.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Matched: 1, Sent: 1}, result)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Reminder: Pending Report", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Text, stale.ID.String())

	got, err := repo.FindByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportPending, got.Status)
	assert.True(t, got.UpdatedAt.Equal(stale.UpdatedAt))
}

func TestReminderSweep_NothingStale(t *testing.T) {
	repo := repository.NewReportRepository(testutil.NewDB(t))
	sender := &captureSender{}
	now := time.Now().UTC()

	seed(t, repo, models.ReportPending, now.Add(-time.Hour))
	seed(t, repo, models.ReportResolved, now.Add(-10*time.Hour))

	result, err := NewReminderSweep(repo, notify.NewDispatcher(sender, "admin@example.com"), 3*time.Hour, 0).
		Run(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, result.Matched)
	assert.Empty(t, sender.sent)
}

func TestReminderSweep_RepeatsUntilHandled(t *testing.T) {
	repo := repository.NewReportRepository(testutil.NewDB(t))
	sender := &captureSender{}
	sweep := NewReminderSweep(repo, notify.NewDispatcher(sender, "admin@example.com"), 3*time.Hour, 0)
	now := time.Now().UTC()
	stale := seed(t, repo, models.ReportPending, now.Add(-5*time.Hour))

	for i := 0; i < 2; i++ {
		_, err := sweep.Run(context.Background(), now)
		require.NoError(t, err)
	}
	assert.Len(t, sender.sent, 2)

	require.NoError(t, repo.UpdateStatus(context.Background(), stale.ID, models.ReportOnProcess, now))
	result, err := sweep.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, result.Matched)
	assert.Len(t, sender.sent, 2)
}

func TestReminderSweep_FailureDoesNotAbort(t *testing.T) {
	repo := repository.NewReportRepository(testutil.NewDB(t))
	now := time.Now().UTC()

	first := seed(t, repo, models.ReportPending, now.Add(-6*time.Hour))
	second := seed(t, repo, models.ReportPending, now.Add(-5*time.Hour))
	third := seed(t, repo, models.ReportPending, now.Add(-4*time.Hour))

	sender := &captureSender{failOn: map[string]bool{first.ID.String(): true}}
	result, err := NewReminderSweep(repo, notify.NewDispatcher(sender, "admin@example.com"), 3*time.Hour, 1000).
		Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Matched: 3, Sent: 2, Failed: 1}, result)
	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[0].Text, second.ID.String())
	assert.Contains(t, sender.sent[1].Text, third.ID.String())
}

func TestReminderSweep_DryRun(t *testing.T) {
	repo := repository.NewReportRepository(testutil.NewDB(t))
	sender := &captureSender{}
	now := time.Now().UTC()
	seed(t, repo, models.ReportPending, now.Add(-4*time.Hour))

	result, err := NewReminderSweep(repo, notify.NewDispatcher(sender, "admin@example.com"), 3*time.Hour, 0).
		WithDryRun(true).
		Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matched)
	assert.Zero(t, result.Sent)
	assert.Empty(t, sender.sent)
}

type heldLock struct{ held bool }

func (l *heldLock) TryLock(context.Context, string, time.Duration) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func TestReminderSweep_Lock(t *testing.T) {
	repo := repository.NewReportRepository(testutil.NewDB(t))
	sender := &captureSender{}
	now := time.Now().UTC()
	seed(t, repo, models.ReportPending, now.Add(-4*time.Hour))

	lock := &heldLock{}
	sweep := NewReminderSweep(repo, notify.NewDispatcher(sender, "admin@example.com"), 3*time.Hour, 0).
		WithLock(lock, time.Hour)

	result, err := sweep.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)

	result, err = sweep.Run(context.Background(), now)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Len(t, sender.sent, 1)
}

func TestScheduler_EveryStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler()

	runs := make(chan struct{}, 10)
	s.Every(ctx, "tick", 5*time.Millisecond, func(context.Context) error {
		select {
		case runs <- struct{}{}:
		default:
		}
		return errors.New("keeps going")
	})

	<-runs
	<-runs
	cancel()
	s.Wait()
}
