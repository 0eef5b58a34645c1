package reimbursement

import (
	"context"
	"fmt"

	"go-hrms/internal/features/approval"
	"go-hrms/internal/features/notification"
)

// ApprovalListener tells the requester how their reimbursement claim ended.
type ApprovalListener struct {
	repo          ReimbursementRepository
	notifications notification.NotificationService
}

func NewApprovalListener(repo ReimbursementRepository, notifications notification.NotificationService) *ApprovalListener {
	return &ApprovalListener{repo: repo, notifications: notifications}
}

func (l *ApprovalListener) Name() string { return "reimbursement" }

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
			"Reimbursement approved",
			fmt.Sprintf("Reimbursement %s (%.2f %s) was approved for payout.", request.RequestNo, request.Amount, request.Currency),
			notification.NotificationTypeSuccess,
			fmt.Sprintf("/reimbursements/%d", request.ID),
		)
	case approval.EventRequestRejected:
		request, err := l.repo.GetByID(ctx, event.Request.ID)
		if err != nil {
			return err
		}
		return l.notifications.Notify(ctx,
			request.EmployeeID,
			"Reimbursement rejected",
			fmt.Sprintf("Reimbursement %s was rejected: %s", request.RequestNo, event.Reason),
			notification.NotificationTypeWarning,
			fmt.Sprintf("/reimbursements/%d", request.ID),
		)
	}
	return nil
}
