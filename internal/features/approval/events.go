package approval

import "time"

type EventType string

const (
	EventStepApproved         EventType = "step_approved"
	EventAdvancedToNextLevel  EventType = "advanced_to_next_approver"
	EventRequestFullyApproved EventType = "request_fully_approved"
	EventRequestRejected      EventType = "request_rejected"
)

// Event is emitted by the engine and delivered to listeners strictly after
// the originating transaction commits. Delivery is at-least-once; listeners
// must be idempotent.
type Event struct {
	Type    EventType  `json:"type"`
	Request RequestRef `json:"request"`

	// Level the action happened at; for advancement NewLevel and ApproverID
	// name the step that became actionable.
	Level      int  `json:"level,omitempty"`
	NewLevel   int  `json:"new_level,omitempty"`
	ApproverID uint `json:"approver_id,omitempty"`

	ActorID   uint      `json:"actor_id"`
	ActorName string    `json:"actor_name,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}
