package sweep

import (
	"context"
	"fmt"
	"time"

	"go-civic/internal/config"
	"go-civic/internal/connectors"
	"go-civic/internal/features/notification"
	"go-civic/internal/features/report"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepService runs the background jobs: the hourly overdue sweep and the
// daily warehouse archive.
type SweepService interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	RunOverdueSweep(ctx context.Context) error
	RunArchiveJob(ctx context.Context) error
}

// SweepServiceImpl implements SweepService
type SweepServiceImpl struct {
	ReportRepo          report.ReportRepository
	NotificationService notification.NotificationService
	Warehouse           *connectors.WarehouseConnector
	Logger              *zap.Logger

	OverdueAfter time.Duration

	scheduler *cron.Cron
}

// NewSweepService creates a new sweep service
func NewSweepService(
	reportRepo report.ReportRepository,
	notificationService notification.NotificationService,
	warehouse *connectors.WarehouseConnector,
	cfg *config.Config,
	logger *zap.Logger,
) SweepService {
	return &SweepServiceImpl{
		ReportRepo:          reportRepo,
		NotificationService: notificationService,
		Warehouse:           warehouse,
		Logger:              logger,
		OverdueAfter:        time.Duration(cfg.OverdueAfterHours) * time.Hour,
	}
}

// InitializeScheduler registers the recurring jobs and starts the scheduler
func (s *SweepServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.scheduler = cron.New()

	if _, err := s.scheduler.AddFunc("@hourly", func() {
		if err := s.RunOverdueSweep(context.Background()); err != nil {
			s.Logger.Error("overdue sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to register overdue sweep: %w", err)
	}

	if s.Warehouse.Enabled() {
		if err := s.Warehouse.Connect(ctx); err != nil {
			s.Logger.Error("warehouse connection failed, archive job disabled", zap.Error(err))
		} else if _, err := s.scheduler.AddFunc("@daily", func() {
			if err := s.RunArchiveJob(context.Background()); err != nil {
				s.Logger.Error("archive job failed", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("failed to register archive job: %w", err)
		}
	}

	s.scheduler.Start()
	s.Logger.Info("sweep scheduler started",
		zap.Duration("overdue_after", s.OverdueAfter),
		zap.Bool("warehouse_enabled", s.Warehouse.Enabled()))
	return nil
}

// StopScheduler stops the scheduler and waits for running jobs to finish
func (s *SweepServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		<-s.scheduler.Stop().Done()
	}
	return s.Warehouse.Disconnect(context.Background())
}

// RunOverdueSweep notifies on every unresolved report older than the
// configured threshold. Each report gets at most one overdue notification
// over its lifetime, so rerunning the sweep is harmless.
func (s *SweepServiceImpl) RunOverdueSweep(ctx context.Context) error {
	cutoff := time.Now().Add(-s.OverdueAfter)

	reports, err := s.ReportRepo.FindUnresolvedOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	notified := 0
	for i := range reports {
		r := &reports[i]

		recipient := r.AssignedTo
		if recipient == "" {
			recipient = "dept:" + string(r.Dept())
		}

		title := "Report overdue"
		body := fmt.Sprintf("Report %s has been unresolved for more than %d hours", r.ID.Hex(), int(s.OverdueAfter.Hours()))
		if err := s.NotificationService.CreateOnce(ctx, recipient, title, body, notification.KindOverdue, r.ID.Hex()); err != nil {
			s.Logger.Warn("overdue notification failed",
				zap.String("report_id", r.ID.Hex()),
				zap.Error(err))
			continue
		}
		notified++
	}

	s.Logger.Info("overdue sweep finished",
		zap.Int("overdue", len(reports)),
		zap.Int("notified", notified))
	return nil
}

// RunArchiveJob copies reports resolved over the last two days into the
// warehouse. The window overlaps the daily schedule and the upsert makes
// the overlap safe.
func (s *SweepServiceImpl) RunArchiveJob(ctx context.Context) error {
	since := time.Now().Add(-48 * time.Hour)

	reports, err := s.ReportRepo.FindResolvedSince(ctx, since)
	if err != nil {
		return err
	}

	archived, err := s.Warehouse.ArchiveResolved(ctx, reports)
	if err != nil {
		return err
	}

	s.Logger.Info("archive job finished",
		zap.Int("candidates", len(reports)),
		zap.Int("archived", archived))
	return nil
}
