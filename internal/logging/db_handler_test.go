package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBHandler_StoresErrorsOnly(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewDBHandler(db, time.Hour)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("ignored")
	logger.Error("notification failed",
		"action", "report_created",
		"report_id", "5b0c7d3e-0000-4000-8000-000000000000",
		"user_id", "user-7",
		"error", "provider down",
		"attempt", 2,
	)
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "notification failed", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "report_created", entry.Action)
	assert.Equal(t, "provider down", entry.Error)
	require.NotNil(t, entry.ReportID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "user-7", *entry.UserID)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.EqualValues(t, 2, extra["attempt"])
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	logger.With("component", "sweep").Info("started")
	logger.Error("failed")

	assert.Contains(t, a.String(), `"component":"sweep"`)
	assert.Contains(t, a.String(), "failed")
	assert.NotContains(t, b.String(), "started")
	assert.Contains(t, b.String(), "failed")
}
