package repository

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedReport(t *testing.T, repo *ReportRepository, by string, status models.ReportStatus, createdAt time.Time) *models.Report {
	t.Helper()
	r := &models.Report{
		ChatID:      uuid.New(),
		ReporterID:  by,
		ReportedBy:  by + "@example.com",
		Reason:      "Bot is not responding",
		Description: "the bot stopped answering my questions",
		Status:      status,
		Messages:    []models.Message{{Role: models.RoleUser, Content: "hi", Timestamp: createdAt}},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestReportRepository_ListNewestFirst(t *testing.T) {
	repo := NewReportRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	old := seedReport(t, repo, "user-a", models.ReportPending, now.Add(-2*time.Hour))
	mid := seedReport(t, repo, "user-b", models.ReportResolved, now.Add(-time.Hour))
	recent := seedReport(t, repo, "user-a", models.ReportPending, now)

	t.Run("All", func(t *testing.T) {
		reports, err := repo.List(ctx, ReportQuery{})
		require.NoError(t, err)
		require.Len(t, reports, 3)
		assert.Equal(t, []uuid.UUID{recent.ID, mid.ID, old.ID}, []uuid.UUID{reports[0].ID, reports[1].ID, reports[2].ID})
	})

	t.Run("ByReporter", func(t *testing.T) {
		reports, err := repo.List(ctx, ReportQuery{ReporterID: "user-a"})
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, recent.ID, reports[0].ID)
		assert.Equal(t, old.ID, reports[1].ID)
	})

	t.Run("ByStatus", func(t *testing.T) {
		reports, err := repo.List(ctx, ReportQuery{Status: models.ReportResolved})
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, mid.ID, reports[0].ID)
	})
}

func TestReportRepository_ListTiesOrderedByID(t *testing.T) {
	repo := NewReportRepository(testutil.NewDB(t))
	at := time.Now().UTC().Truncate(time.Microsecond)

	ids := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		ids = append(ids, seedReport(t, repo, "user-a", models.ReportPending, at).ID.String())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))

	for run := 0; run < 2; run++ {
		reports, err := repo.List(context.Background(), ReportQuery{})
		require.NoError(t, err)
		got := make([]string, 0, len(reports))
		for _, r := range reports {
			got = append(got, r.ID.String())
		}
		assert.Equal(t, ids, got)
	}
}

func TestReportRepository_ListStalePending(t *testing.T) {
	repo := NewReportRepository(testutil.NewDB(t))
	now := time.Now().UTC()

	stale := seedReport(t, repo, "user-a", models.ReportPending, now.Add(-4*time.Hour))
	seedReport(t, repo, "user-a", models.ReportPending, now.Add(-time.Hour))
	seedReport(t, repo, "user-a", models.ReportOnProcess, now.Add(-5*time.Hour))

	reports, err := repo.ListStalePending(context.Background(), now.Add(-3*time.Hour))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, stale.ID, reports[0].ID)
}

func TestReportRepository_UpdateAndDelete(t *testing.T) {
	repo := NewReportRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Now().UTC()
	r := seedReport(t, repo, "user-a", models.ReportPending, now.Add(-time.Minute))

	require.NoError(t, repo.UpdateStatus(ctx, r.ID, models.ReportOnProcess, now))
	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportOnProcess, got.Status)
	assert.True(t, got.UpdatedAt.After(r.UpdatedAt))
	assert.Equal(t, r.Messages[0].Content, got.Messages[0].Content)

	err = repo.UpdateStatus(ctx, uuid.New(), models.ReportResolved, now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, r.ID))
	_, err = repo.FindByID(ctx, r.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, r.ID), gorm.ErrRecordNotFound)
}
