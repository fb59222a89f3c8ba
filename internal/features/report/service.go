package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-civic/internal/config"
	"go-civic/internal/features/notification"
	"go-civic/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrUnauthenticated is returned when a mutation arrives without a principal.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the principal's role does not allow the mutation.
	ErrForbidden = errors.New("forbidden: role not allowed to perform this action")
	// ErrInvalidStatus is returned for status values outside the lifecycle enum.
	ErrInvalidStatus = errors.New("invalid report status")
	// ErrInvalidDepartment is returned for unknown department values.
	ErrInvalidDepartment = errors.New("invalid department")
	// ErrNoAssignmentFields is returned when an assignment update names neither field.
	ErrNoAssignmentFields = errors.New("assignment update requires a department or an assignee")
	// ErrEmptyNote is returned when a note append carries no text.
	ErrEmptyNote = errors.New("note must not be empty")
)

// ReportService is the lifecycle mutation and scoped read surface over the
// report store. Mutations take the principal explicitly; there is no ambient
// authenticated-user lookup, so every operation is a function of
// (principal, command).
type ReportService interface {
	ListReports(ctx context.Context) ([]Report, error)
	ListSupervisorReports(ctx context.Context, principal *utils.UserClaims) ([]Report, error)
	GetReport(ctx context.Context, id string) (*Report, error)

	UpdateStatus(ctx context.Context, principal *utils.UserClaims, id string, status ReportStatus, note string) error
	UpdateStatusAsSupervisor(ctx context.Context, principal *utils.UserClaims, id string, status ReportStatus, note string) error
	UpdateAssignment(ctx context.Context, principal *utils.UserClaims, id string, dept *Department, assignee *string) error
	UpdateClassification(ctx context.Context, principal *utils.UserClaims, id string, classification, note string) error
	AddNote(ctx context.Context, principal *utils.UserClaims, id string, note string) error
}

// ReportServiceImpl implements ReportService
type ReportServiceImpl struct {
	Repo                ReportRepository
	NotificationService notification.NotificationService
	Version             *SnapshotVersion
	Logger              *zap.Logger
	ListLimit           int64
}

// NewReportService creates a new report service
func NewReportService(repo ReportRepository, notificationService notification.NotificationService, version *SnapshotVersion, cfg *config.Config, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		Repo:                repo,
		NotificationService: notificationService,
		Version:             version,
		Logger:              logger,
		ListLimit:           cfg.ReportListLimit,
	}
}

// ListReports returns the admin view: newest first, bounded page.
func (s *ReportServiceImpl) ListReports(ctx context.Context) ([]Report, error) {
	return s.Repo.FindLatest(ctx, s.ListLimit)
}

// ListSupervisorReports returns the union of reports routed to the
// supervisor's department and reports assigned to them personally.
func (s *ReportServiceImpl) ListSupervisorReports(ctx context.Context, principal *utils.UserClaims) ([]Report, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if principal.Role != "supervisor" || principal.Dept == "" {
		return nil, ErrForbidden
	}
	return s.Repo.FindForSupervisor(ctx, Department(principal.Dept), principal.UID)
}

// GetReport retrieves a report by ID
func (s *ReportServiceImpl) GetReport(ctx context.Context, id string) (*Report, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid report ID: %w", err)
	}
	return s.Repo.FindByID(ctx, objID)
}

// UpdateStatus appends a status-kind history entry and sets the top-level
// status in one atomic store write.
func (s *ReportServiceImpl) UpdateStatus(ctx context.Context, principal *utils.UserClaims, id string, status ReportStatus, note string) error {
	if principal == nil {
		return ErrUnauthenticated
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid report ID: %w", err)
	}

	if !ValidStatus(status) {
		return ErrInvalidStatus
	}

	entry := StatusHistoryEntry{
		Kind:      HistoryKindStatus,
		Status:    status,
		ChangedBy: principal.UID,
		ChangedAt: time.Now(),
		Note:      note,
	}

	if err := s.Repo.UpdateStatus(ctx, objID, status, entry); err != nil {
		s.Logger.Error("status update failed",
			zap.String("actor_uid", principal.UID),
			zap.String("report_id", id),
			zap.Error(err))
		return err
	}

	s.Version.Bump()
	s.Logger.Info("report status updated",
		zap.String("actor_uid", principal.UID),
		zap.String("report_id", id),
		zap.String("status", string(status)))

	if status == StatusResolved {
		s.notifyReporterResolved(ctx, objID, id)
	}

	return nil
}

// UpdateStatusAsSupervisor is the supervisor-console variant; only a
// supervisor principal may use it.
func (s *ReportServiceImpl) UpdateStatusAsSupervisor(ctx context.Context, principal *utils.UserClaims, id string, status ReportStatus, note string) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	if principal.Role != "supervisor" {
		return ErrForbidden
	}
	return s.UpdateStatus(ctx, principal, id, status, note)
}

// UpdateAssignment sets the routed department and/or the assignee. Either may
// be omitted independently; omitting both is a caller bug and rejected.
// Assignment changes do not append history entries.
func (s *ReportServiceImpl) UpdateAssignment(ctx context.Context, principal *utils.UserClaims, id string, dept *Department, assignee *string) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	if dept == nil && assignee == nil {
		return ErrNoAssignmentFields
	}
	if dept != nil {
		switch *dept {
		case DeptWater, DeptRoads, DeptElectricity, DeptSanitation, DeptGeneral:
		default:
			return ErrInvalidDepartment
		}
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid report ID: %w", err)
	}

	if err := s.Repo.UpdateAssignment(ctx, objID, dept, assignee); err != nil {
		s.Logger.Error("assignment update failed",
			zap.String("actor_uid", principal.UID),
			zap.String("report_id", id),
			zap.Error(err))
		return err
	}

	s.Version.Bump()
	s.Logger.Info("report assignment updated",
		zap.String("actor_uid", principal.UID),
		zap.String("report_id", id))

	if assignee != nil && *assignee != "" {
		s.notifyAssignee(ctx, objID, id, *assignee)
	}

	return nil
}

// UpdateClassification appends a classification-kind history entry and sets
// the classification fields atomically.
func (s *ReportServiceImpl) UpdateClassification(ctx context.Context, principal *utils.UserClaims, id string, classification, note string) error {
	if principal == nil {
		return ErrUnauthenticated
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid report ID: %w", err)
	}

	entry := StatusHistoryEntry{
		Kind:           HistoryKindClassification,
		Classification: classification,
		ChangedBy:      principal.UID,
		ChangedAt:      time.Now(),
		Note:           note,
	}

	if err := s.Repo.UpdateClassification(ctx, objID, classification, note, entry); err != nil {
		s.Logger.Error("classification update failed",
			zap.String("actor_uid", principal.UID),
			zap.String("report_id", id),
			zap.Error(err))
		return err
	}

	s.Version.Bump()
	s.Logger.Info("report classified",
		zap.String("actor_uid", principal.UID),
		zap.String("report_id", id),
		zap.String("classification", classification))

	return nil
}

// AddNote appends a note-kind history entry without touching any lifecycle
// field. Supervisor-only.
func (s *ReportServiceImpl) AddNote(ctx context.Context, principal *utils.UserClaims, id string, note string) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	if principal.Role != "supervisor" {
		return ErrForbidden
	}
	if note == "" {
		return ErrEmptyNote
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid report ID: %w", err)
	}

	entry := StatusHistoryEntry{
		Kind:      HistoryKindNote,
		Note:      note,
		ChangedBy: principal.UID,
		ChangedAt: time.Now(),
	}

	if err := s.Repo.AppendNote(ctx, objID, entry); err != nil {
		s.Logger.Error("note append failed",
			zap.String("actor_uid", principal.UID),
			zap.String("report_id", id),
			zap.Error(err))
		return err
	}

	s.Version.Bump()
	return nil
}

// Notification dispatch is fire-and-forget: correctness never depends on it.

func (s *ReportServiceImpl) notifyAssignee(ctx context.Context, objID primitive.ObjectID, id, assignee string) {
	rep, err := s.Repo.FindByID(ctx, objID)
	if err != nil {
		return
	}
	body := fmt.Sprintf("You have been assigned a new %s report: %s", rep.IssueType, rep.IssueLabel)
	_ = s.NotificationService.CreateNotification(ctx, assignee, "New Report Assigned", body, notification.KindAssignment, id)
}

func (s *ReportServiceImpl) notifyReporterResolved(ctx context.Context, objID primitive.ObjectID, id string) {
	rep, err := s.Repo.FindByID(ctx, objID)
	if err != nil || rep.UID == "" {
		return
	}
	body := fmt.Sprintf("Your %s report has been resolved: %s", rep.IssueType, rep.IssueLabel)
	_ = s.NotificationService.CreateNotification(ctx, rep.UID, "Report Resolved", body, notification.KindResolution, id)
}
