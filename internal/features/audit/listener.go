package audit

import (
	"context"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/approval"
)

// ApprovalListener appends one audit entry per engine event.
type ApprovalListener struct {
	audits AuditService
}

func NewApprovalListener(audits AuditService) *ApprovalListener {
	return &ApprovalListener{audits: audits}
}

func (l *ApprovalListener) Name() string { return "audit" }

func (l *ApprovalListener) HandleApprovalEvent(ctx context.Context, event approval.Event) error {
	entry := &common_models.AuditLog{
		Action:      common_models.AuditActionApproval,
		RequestKind: event.Request.Kind,
		RequestID:   event.Request.ID,
		Level:       event.Level,
		ActorID:     event.ActorID,
		ActorName:   event.ActorName,
		Timestamp:   event.At,
		Changes: map[string]common_models.Change{
			"event": {Old: nil, New: string(event.Type)},
		},
	}
	if event.Reason != "" {
		entry.Changes["reason"] = common_models.Change{Old: nil, New: event.Reason}
	}
	if event.Type == approval.EventAdvancedToNextLevel {
		entry.Changes["current_level"] = common_models.Change{Old: event.Level, New: event.NewLevel}
	}
	return l.audits.Record(ctx, entry)
}
