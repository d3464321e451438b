package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportQuery narrows List. Zero values mean "no filter".
type ReportQuery struct {
	ReporterID string
	Status     models.ReportStatus
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// FindByID returns gorm.ErrRecordNotFound when the report does not exist.
func (r *ReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateStatus writes status and updated_at in a single statement. There is
// no version check: concurrent writers resolve as last write wins.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Report{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReportRepository) List(ctx context.Context, q ReportQuery) ([]models.Report, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if q.ReporterID != "" {
		query = query.Scopes(FiledBy(q.ReporterID))
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	reports := make([]models.Report, 0)
	if err := query.Scopes(newestFirst).Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// ListStalePending returns pending reports created at or before cutoff,
// oldest first.
func (r *ReportRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Report, error) {
	reports := make([]models.Report, 0)
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at <= ?", models.ReportPending, cutoff).
		Order("created_at ASC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
