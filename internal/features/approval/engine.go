package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-hrms/internal/database"

	"gorm.io/gorm"
)

// Engine executes approval chains: materializing them, advancing them on
// approval, and terminating them on rejection. Every operation runs as one
// transaction; no partial transition is ever observable. The engine holds no
// in-process state, so concurrent calls coordinate purely through row locks
// in the backing store.
type Engine interface {
	CreateChain(ctx context.Context, ref RequestRef, approverIDs []uint) ([]Step, error)
	Approve(ctx context.Context, ref RequestRef, actor Actor, input ActionInput) (*Decision, error)
	Reject(ctx context.Context, ref RequestRef, actor Actor, reason string) (*Decision, error)
}

type EngineImpl struct {
	db       *gorm.DB
	steps    StepStore
	registry *Registry
	policy   AdminPolicy
	now      func() time.Time
}

func NewEngine(gdb *database.GormDB, steps StepStore, registry *Registry, policy AdminPolicy) Engine {
	return &EngineImpl{
		db:       gdb.DB,
		steps:    steps,
		registry: registry,
		policy:   policy,
		now:      time.Now,
	}
}

// CreateChain materializes one step per approver, levels 1..N, all pending,
// and moves the request's level pointer to 1. The caller is responsible for
// being entitled to initiate the request; the engine performs no
// authorization here.
func (e *EngineImpl) CreateChain(ctx context.Context, ref RequestRef, approverIDs []uint) ([]Step, error) {
	if len(approverIDs) == 0 {
		return nil, ErrInvalidChain
	}
	acc, err := e.registry.For(ref.Kind)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(approverIDs))
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := acc.State(tx, ref.ID); err != nil {
			return err
		}

		existing, err := e.steps.CountForRequest(tx, ref)
		if err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("%w: %s", ErrChainAlreadyExists, ref)
		}

		for i, approverID := range approverIDs {
			steps = append(steps, Step{
				RequestKind: ref.Kind,
				RequestID:   ref.ID,
				Level:       i + 1,
				ApproverID:  approverID,
				Status:      StatusPending,
				CreatedAt:   e.now(),
			})
		}
		if err := e.steps.CreateAll(tx, steps); err != nil {
			return err
		}

		if err := acc.SetCurrentLevel(tx, ref.ID, 1); err != nil {
			return err
		}
		return acc.SetStatus(tx, ref.ID, StatusPending, "")
	})
	if err != nil {
		// Two racing creates can both pass the count check; the loser then
		// trips the request/level unique index instead.
		if isUniqueViolationErr(err) {
			return nil, fmt.Errorf("%w: %s", ErrChainAlreadyExists, ref)
		}
		return nil, e.classify(err)
	}
	return steps, nil
}

// Approve finalizes the pending step at the request's current level and
// either advances the pointer or completes the request. The designated
// approver may act; so may any actor the admin policy elevates.
func (e *EngineImpl) Approve(ctx context.Context, ref RequestRef, actor Actor, input ActionInput) (*Decision, error) {
	acc, err := e.registry.For(ref.Kind)
	if err != nil {
		return nil, err
	}

	var dec Decision
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := acc.State(tx, ref.ID)
		if err != nil {
			return err
		}

		step, err := e.steps.LockPending(tx, ref, state.CurrentLevel)
		if err != nil {
			return err
		}
		if step == nil {
			return fmt.Errorf("%w: %s", ErrNoActionableStep, ref)
		}

		if step.ApproverID != actor.ID && !e.policy.CanActAsAdmin(actor) {
			return fmt.Errorf("%w: actor %d, step level %d", ErrUnauthorized, actor.ID, step.Level)
		}

		now := e.now()
		note := input.Note
		if note == "" {
			note = "Approved by: " + actor.DisplayName
		}
		if err := e.steps.Finalize(tx, step.ID, StatusApproved, now, note, input.Signature); err != nil {
			return err
		}
		step.Status = StatusApproved
		step.ActedAt = &now
		step.Note = note
		step.Signature = input.Signature

		events := []Event{{
			Type:      EventStepApproved,
			Request:   ref,
			Level:     step.Level,
			ActorID:   actor.ID,
			ActorName: actor.DisplayName,
			At:        now,
		}}

		next, err := e.steps.GetAtLevel(tx, ref, state.CurrentLevel+1)
		if err != nil {
			return err
		}
		if next != nil {
			if err := acc.SetCurrentLevel(tx, ref.ID, next.Level); err != nil {
				return err
			}
			state.CurrentLevel = next.Level
			events = append(events, Event{
				Type:       EventAdvancedToNextLevel,
				Request:    ref,
				NewLevel:   next.Level,
				ApproverID: next.ApproverID,
				ActorID:    actor.ID,
				At:         now,
			})
		} else {
			if err := acc.SetStatus(tx, ref.ID, StatusApproved, ""); err != nil {
				return err
			}
			state.Status = StatusApproved
			events = append(events, Event{
				Type:    EventRequestFullyApproved,
				Request: ref,
				Level:   step.Level,
				ActorID: actor.ID,
				At:      now,
			})
		}

		dec = Decision{Request: *state, Step: *step, Events: events}
		return nil
	})
	if err != nil {
		return nil, e.classify(err)
	}
	return &dec, nil
}

// Reject terminates the chain. A non-empty reason is mandatory. Only the
// designated approver of the current pending step may reject; the admin
// override does not apply. Every unreached step is voided in one set-based
// update so the audit trail keeps a terminal disposition for all levels.
func (e *EngineImpl) Reject(ctx context.Context, ref RequestRef, actor Actor, reason string) (*Decision, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	acc, err := e.registry.For(ref.Kind)
	if err != nil {
		return nil, err
	}

	var dec Decision
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := acc.State(tx, ref.ID)
		if err != nil {
			return err
		}

		step, err := e.steps.LockPendingForApprover(tx, ref, state.CurrentLevel, actor.ID)
		if err != nil {
			return err
		}
		if step == nil {
			return fmt.Errorf("%w: actor %d on %s", ErrUnauthorizedRejection, actor.ID, ref)
		}

		now := e.now()
		if err := e.steps.Finalize(tx, step.ID, StatusRejected, now, reason, ""); err != nil {
			return err
		}
		step.Status = StatusRejected
		step.ActedAt = &now
		step.Note = reason

		rejectionReason := fmt.Sprintf("Rejected at Level %d: %s", step.Level, reason)
		if err := acc.SetStatus(tx, ref.ID, StatusRejected, rejectionReason); err != nil {
			return err
		}
		state.Status = StatusRejected
		state.RejectionReason = rejectionReason

		if err := e.steps.VoidAbove(tx, ref, step.Level, VoidedNote); err != nil {
			return err
		}

		dec = Decision{
			Request: *state,
			Step:    *step,
			Events: []Event{{
				Type:      EventRequestRejected,
				Request:   ref,
				Level:     step.Level,
				ActorID:   actor.ID,
				ActorName: actor.DisplayName,
				Reason:    reason,
				At:        now,
			}},
		}
		return nil
	})
	if err != nil {
		return nil, e.classify(err)
	}
	return &dec, nil
}

// VoidedNote is written on every step skipped by a rejection.
const VoidedNote = "Voided due to previous rejection"

// classify maps transient store failures to ErrConflict so callers can
// retry, and passes everything else through.
func (e *EngineImpl) classify(err error) error {
	if isConflictErr(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
