package notification

import (
	"context"
	"fmt"

	"go-hrms/internal/features/approval"
)

// ApprovalListener tells the next approver their step became actionable.
// Requester-facing notifications live with the request features, which know
// who owns each request.
type ApprovalListener struct {
	notifications NotificationService
}

func NewApprovalListener(notifications NotificationService) *ApprovalListener {
	return &ApprovalListener{notifications: notifications}
}

func (l *ApprovalListener) Name() string { return "notification" }

func (l *ApprovalListener) HandleApprovalEvent(ctx context.Context, event approval.Event) error {
	if event.Type != approval.EventAdvancedToNextLevel {
		return nil
	}

	return l.notifications.Notify(ctx,
		event.ApproverID,
		"Approval needed",
		fmt.Sprintf("Request %s is waiting for your approval at level %d.", event.Request, event.NewLevel),
		NotificationTypeApproval,
		fmt.Sprintf("/approvals/%s/%d", event.Request.Kind, event.Request.ID),
	)
}
