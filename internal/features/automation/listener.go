package automation

import (
	"context"

	"go-hrms/internal/features/approval"
)

// ApprovalListener bridges engine events to the script runner.
type ApprovalListener struct {
	runner Runner
}

func NewApprovalListener(runner Runner) *ApprovalListener {
	return &ApprovalListener{runner: runner}
}

func (l *ApprovalListener) Name() string { return "automation" }

func (l *ApprovalListener) HandleApprovalEvent(ctx context.Context, event approval.Event) error {
	return l.runner.Run(ctx, event)
}
