package leave

import (
	"context"
	"fmt"

	"go-hrms/internal/features/approval"
	"go-hrms/internal/features/notification"

	"go.uber.org/zap"
)

// ApprovalListener reacts to terminal leave outcomes: it deducts the balance
// on full approval and tells the requester how their request ended.
type ApprovalListener struct {
	repo          LeaveRepository
	notifications notification.NotificationService
	logger        *zap.Logger
}

func NewApprovalListener(repo LeaveRepository, notifications notification.NotificationService, logger *zap.Logger) *ApprovalListener {
	return &ApprovalListener{
		repo:          repo,
		notifications: notifications,
		logger:        logger,
	}
}

func (l *ApprovalListener) Name() string { return "leave" }

func (l *ApprovalListener) HandleApprovalEvent(ctx context.Context, event approval.Event) error {
	if event.Request.Kind != Kind {
		return nil
	}

	switch event.Type {
	case approval.EventRequestFullyApproved:
		return l.handleApproved(ctx, event)
	case approval.EventRequestRejected:
		request, err := l.repo.GetByID(ctx, event.Request.ID)
		if err != nil {
			return err
		}
		return l.notifications.Notify(ctx,
			request.EmployeeID,
			"Leave request rejected",
			fmt.Sprintf("Leave request %s was rejected: %s", request.RequestNo, event.Reason),
			notification.NotificationTypeWarning,
			fmt.Sprintf("/leaves/%d", request.ID),
		)
	}
	return nil
}

func (l *ApprovalListener) handleApproved(ctx context.Context, event approval.Event) error {
	request, err := l.repo.GetByID(ctx, event.Request.ID)
	if err != nil {
		return err
	}

	// Delivery is at-least-once; deducted_at makes the deduction fire once.
	claimed, err := l.repo.MarkDeducted(ctx, request.ID)
	if err != nil {
		return err
	}
	if claimed && request.Type != LeaveTypeUnpaid {
		if err := l.repo.AddUsed(ctx, request.EmployeeID, request.Type, request.StartDate.Year(), request.Days); err != nil {
			return err
		}
		l.logger.Info("leave balance deducted",
			zap.String("requestNo", request.RequestNo),
			zap.Uint("employeeId", request.EmployeeID),
			zap.Float64("days", request.Days),
		)
	}

	return l.notifications.Notify(ctx,
		request.EmployeeID,
		"Leave request approved",
		fmt.Sprintf("Leave request %s was fully approved.", request.RequestNo),
		notification.NotificationTypeSuccess,
		fmt.Sprintf("/leaves/%d", request.ID),
	)
}
