package cron

import (
	"context"
	"fmt"
	"time"

	"go-hrms/internal/config"
	"go-hrms/internal/database"
	"go-hrms/internal/features/approval"
	"go-hrms/internal/features/notification"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ReminderService nudges approvers whose actionable step has been sitting
// pending past the configured age.
type ReminderService struct {
	cfg           *config.Config
	db            *database.GormDB
	steps         approval.StepStore
	registry      *approval.Registry
	notifications notification.NotificationService
	logger        *zap.Logger

	scheduler *cron.Cron
}

func NewReminderService(
	cfg *config.Config,
	gdb *database.GormDB,
	steps approval.StepStore,
	registry *approval.Registry,
	notifications notification.NotificationService,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		cfg:           cfg,
		db:            gdb,
		steps:         steps,
		registry:      registry,
		notifications: notifications,
		logger:        logger,
		scheduler:     cron.New(),
	}
}

// Register wires the scheduler into the app lifecycle.
func Register(lc fx.Lifecycle, s *ReminderService) error {
	_, err := s.scheduler.AddFunc(s.cfg.ReminderCron, func() {
		if err := s.RemindStaleSteps(context.Background()); err != nil {
			s.logger.Error("stale step reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder cron %q: %w", s.cfg.ReminderCron, err)
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.scheduler.Start()
			s.logger.Info("reminder scheduler started", zap.String("cron", s.cfg.ReminderCron))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopCtx := s.scheduler.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}

// RemindStaleSteps finds pending steps older than the cutoff that are
// actionable now and notifies their approvers.
func (s *ReminderService) RemindStaleSteps(ctx context.Context) error {
	cutoff := time.Now().Add(-time.Duration(s.cfg.ReminderAgeHours) * time.Hour)
	stale, err := s.steps.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	reminded := 0
	for _, step := range stale {
		acc, err := s.registry.For(step.RequestKind)
		if err != nil {
			continue
		}
		state, err := acc.State(s.db.DB.WithContext(ctx), step.RequestID)
		if err != nil {
			continue
		}
		// Only the step at the request's current level is actionable;
		// steps above it are just waiting their turn.
		if state.Status != approval.StatusPending || state.CurrentLevel != step.Level {
			continue
		}

		err = s.notifications.Notify(ctx,
			step.ApproverID,
			"Approval reminder",
			fmt.Sprintf("Request %s has been waiting for your approval since %s.",
				step.Ref(), step.CreatedAt.Format("Jan 2")),
			notification.NotificationTypeWarning,
			fmt.Sprintf("/approvals/%s/%d", step.RequestKind, step.RequestID),
		)
		if err != nil {
			s.logger.Error("reminder notification failed",
				zap.String("request", step.Ref().String()),
				zap.Uint("approverId", step.ApproverID),
				zap.Error(err),
			)
			continue
		}
		reminded++
	}

	s.logger.Info("stale step reminders sent",
		zap.Int("stale", len(stale)),
		zap.Int("reminded", reminded),
	)
	return nil
}
