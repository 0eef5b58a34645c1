package overtime

import (
	"context"
	"fmt"

	"go-hrms/internal/features/approval"
	"go-hrms/internal/features/notification"
)

// ApprovalListener tells the requester how their overtime request ended.
type ApprovalListener struct {
	repo          OvertimeRepository
	notifications notification.NotificationService
}

func NewApprovalListener(repo OvertimeRepository, notifications notification.NotificationService) *ApprovalListener {
	return &ApprovalListener{repo: repo, notifications: notifications}
}

func (l *ApprovalListener) Name() string { return "overtime" }

func (l *ApprovalListener) HandleApprovalEvent(ctx context.Context, event approval.Event) error {
	if event.Request.Kind != Kind {
		return nil
	}

	switch event.Type {
	case approval.EventRequestFullyApproved:
		request, err := l.repo.GetByID(ctx, event.Request.ID)
		if err != nil {
			return err
		}
		return l.notifications.Notify(ctx,
			request.EmployeeID,
			"Overtime request approved",
			fmt.Sprintf("Overtime request %s (%.1f hours) was fully approved.", request.RequestNo, request.Hours),
			notification.NotificationTypeSuccess,
			fmt.Sprintf("/overtime/%d", request.ID),
		)
	case approval.EventRequestRejected:
		request, err := l.repo.GetByID(ctx, event.Request.ID)
		if err != nil {
			return err
		}
		return l.notifications.Notify(ctx,
			request.EmployeeID,
			"Overtime request rejected",
			fmt.Sprintf("Overtime request %s was rejected: %s", request.RequestNo, event.Reason),
			notification.NotificationTypeWarning,
			fmt.Sprintf("/overtime/%d", request.ID),
		)
	}
	return nil
}
