package approval

import (
	"fmt"
	"time"
)

// Status is the workflow status shared by requests and steps. Requests may
// additionally carry pre-chain states (draft) which the engine never touches.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// RequestRef identifies one approvable request across kinds.
type RequestRef struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id"`
}

func (r RequestRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Step is one ordered unit of an approval chain. Levels are contiguous
// starting at 1 and fixed at chain creation; a step transitions exactly once
// from pending to approved or rejected.
type Step struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	RequestKind string     `gorm:"size:40;not null;uniqueIndex:idx_step_request_level,priority:1" json:"request_kind"`
	RequestID   uint       `gorm:"not null;uniqueIndex:idx_step_request_level,priority:2" json:"request_id"`
	Level       int        `gorm:"not null;uniqueIndex:idx_step_request_level,priority:3" json:"level"`
	ApproverID  uint       `gorm:"not null;index" json:"approver_id"`
	Status      Status     `gorm:"size:16;not null;default:'pending';index" json:"status"`
	ActedAt     *time.Time `json:"acted_at,omitempty"`
	Note        string     `gorm:"type:text" json:"note,omitempty"`
	Signature   string     `gorm:"type:text" json:"signature,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Step) TableName() string {
	return "approval_steps"
}

func (s Step) Ref() RequestRef {
	return RequestRef{Kind: s.RequestKind, ID: s.RequestID}
}

// RequestState is the engine-owned slice of a request's row.
type RequestState struct {
	CurrentLevel    int    `json:"current_level"`
	Status          Status `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// Actor is whoever attempts an approval action. The engine only compares
// identity and consults role membership through the admin policy.
type Actor struct {
	ID          uint     `json:"id"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles"`
}

// ActionInput carries the optional note and signature of an approve action.
type ActionInput struct {
	Note      string `json:"note"`
	Signature string `json:"signature"`
}

// Decision is the outcome of one engine operation: the refreshed request
// state, the step acted on, and the events to hand to downstream consumers
// after commit.
type Decision struct {
	Request RequestState `json:"request"`
	Step    Step         `json:"step"`
	Events  []Event      `json:"-"`
}
