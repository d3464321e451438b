package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/authz"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/identity"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q repository.ReportQuery) ([]models.Report, error)
}

// ConversationStore resolves a chat owned by the given user.
type ConversationStore interface {
	FindOwned(ctx context.Context, userID string, id uuid.UUID) (*models.Chat, error)
}

type ReportNotifier interface {
	ReportCreated(report *models.Report)
}

// ReportService owns the report lifecycle. Any status may move to any other
// status; the only guard is the administrator policy. Concurrent status
// changes are last-write-wins.
type ReportService struct {
	reports  ReportStore
	chats    ConversationStore
	policy   authz.Policy
	notifier ReportNotifier
	now      func() time.Time
}

func NewReportService(reports ReportStore, chats ConversationStore, policy authz.Policy, notifier ReportNotifier) *ReportService {
	return &ReportService{
		reports:  reports,
		chats:    chats,
		policy:   policy,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, for tests.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// reporterContact is the address stored in Report.ReportedBy. Ownership is
// decided by ReporterID, never by this value.
func reporterContact(id identity.Identity) string {
	if id.Email != "" {
		return id.Email
	}
	return id.Subject
}

func (s *ReportService) Create(ctx context.Context, actor identity.Identity, req *dto.CreateReportRequest) (*models.Report, error) {
	if actor.IsZero() {
		return nil, ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	chatID, err := uuid.Parse(req.ChatID)
	if err != nil {
		return nil, &ValidationError{Field: "chat_id", Message: "must be a valid UUID"}
	}

	chat, err := s.chats.FindOwned(ctx, actor.Subject, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, dependency("load conversation", err)
	}

	snapshot := make([]models.Message, len(chat.Messages))
	copy(snapshot, chat.Messages)

	now := s.now().Truncate(time.Microsecond)
	report := &models.Report{
		ChatID:      chat.ID,
		ReporterID:  actor.Subject,
		ReportedBy:  reporterContact(actor),
		Reason:      req.Reason,
		Description: req.Description,
		Status:      models.ReportPending,
		Messages:    snapshot,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, dependency("create report", err)
	}

	metrics.ReportsCreated.Inc()
	slog.Info("report created", "report_id", report.ID.String(), "user_id", actor.Subject, "chat_id", chat.ID.String())

	if s.notifier != nil {
		s.notifier.ReportCreated(report)
	}
	return report, nil
}

// SetStatus applies newStatus and returns the record as re-read from the
// store. UpdatedAt always moves forward, even if the clock has not.
func (s *ReportService) SetStatus(ctx context.Context, actor identity.Identity, id uuid.UUID, newStatus string) (*models.Report, error) {
	if !s.policy.IsAdmin(ctx, actor) {
		return nil, ErrForbidden
	}
	status, err := models.ParseReportStatus(newStatus)
	if err != nil {
		return nil, &ValidationError{Field: "status", Message: "must be one of pending, on_process, resolved, rejected"}
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// Postgres keeps microseconds; compare at that precision.
	at := s.now().Truncate(time.Microsecond)
	last := current.UpdatedAt.Truncate(time.Microsecond)
	if !at.After(last) {
		at = last.Add(time.Microsecond)
	}

	if err := s.reports.UpdateStatus(ctx, id, status, at); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, dependency("update report status", err)
	}
	metrics.ReportStatusChanges.WithLabelValues(string(status)).Inc()
	slog.Info("report status changed", "report_id", id.String(), "user_id", actor.Subject, "from", string(current.Status), "to", string(status))

	return s.find(ctx, id)
}

func (s *ReportService) Delete(ctx context.Context, actor identity.Identity, id uuid.UUID) error {
	if !s.policy.IsAdmin(ctx, actor) {
		return ErrForbidden
	}
	if err := s.reports.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return dependency("delete report", err)
	}
	metrics.ReportsDeleted.Inc()
	slog.Info("report deleted", "report_id", id.String(), "user_id", actor.Subject)
	return nil
}

// ListAll returns every report newest first, optionally filtered by status.
func (s *ReportService) ListAll(ctx context.Context, actor identity.Identity, status string) ([]models.Report, error) {
	if !s.policy.IsAdmin(ctx, actor) {
		return nil, ErrForbidden
	}

	q := repository.ReportQuery{}
	if status != "" {
		st, err := models.ParseReportStatus(status)
		if err != nil {
			return nil, &ValidationError{Field: "status", Message: "must be one of pending, on_process, resolved, rejected"}
		}
		q.Status = st
	}

	reports, err := s.reports.List(ctx, q)
	if err != nil {
		return nil, dependency("list reports", err)
	}
	return reports, nil
}

// ListMine returns the caller's own reports newest first. The reporter is
// taken from the verified identity only.
func (s *ReportService) ListMine(ctx context.Context, actor identity.Identity) ([]models.Report, error) {
	if actor.IsZero() {
		return nil, ErrForbidden
	}
	reports, err := s.reports.List(ctx, repository.ReportQuery{ReporterID: actor.Subject})
	if err != nil {
		return nil, dependency("list reports", err)
	}
	return reports, nil
}

// Get returns a report to an administrator or to its reporter. Anyone else
// sees ErrReportNotFound.
func (s *ReportService) Get(ctx context.Context, actor identity.Identity, id uuid.UUID) (*models.Report, error) {
	report, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsZero() && report.ReporterID == actor.Subject {
		return report, nil
	}
	if s.policy.IsAdmin(ctx, actor) {
		return report, nil
	}
	return nil, ErrReportNotFound
}

func (s *ReportService) find(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, dependency("load report", err)
	}
	return report, nil
}
