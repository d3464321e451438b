package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"gorm.io/gorm"
)

// PruneSystemLogs deletes stored log records older than retention.
func PruneSystemLogs(db *gorm.DB, retention time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		cutoff := time.Now().UTC().Add(-retention)
		result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			slog.Info("log cleanup completed", "deleted", result.RowsAffected)
		}
		return nil
	}
}
