package approval

import (
	"context"

	"go-hrms/internal/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApprovalService fronts the engine for the HTTP layer and the request
// features: it runs the engine operation and, once the transaction has
// committed, hands the emitted events to the dispatcher.
type ApprovalService interface {
	CreateChain(ctx context.Context, ref RequestRef, approverIDs []uint) ([]Step, error)
	Approve(ctx context.Context, ref RequestRef, actor Actor, input ActionInput) (*Decision, error)
	Reject(ctx context.Context, ref RequestRef, actor Actor, reason string) (*Decision, error)

	Steps(ctx context.Context, ref RequestRef) ([]Step, error)
	PendingForApprover(ctx context.Context, approverID uint) ([]Step, error)
}

type ApprovalServiceImpl struct {
	db         *gorm.DB
	engine     Engine
	steps      StepStore
	registry   *Registry
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func NewApprovalService(gdb *database.GormDB, engine Engine, steps StepStore, registry *Registry, dispatcher *Dispatcher, logger *zap.Logger) ApprovalService {
	return &ApprovalServiceImpl{
		db:         gdb.DB,
		engine:     engine,
		steps:      steps,
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *ApprovalServiceImpl) CreateChain(ctx context.Context, ref RequestRef, approverIDs []uint) ([]Step, error) {
	steps, err := s.engine.CreateChain(ctx, ref, approverIDs)
	if err != nil {
		return nil, err
	}
	s.logger.Info("approval chain created",
		zap.String("request", ref.String()),
		zap.Int("levels", len(steps)),
	)
	return steps, nil
}

func (s *ApprovalServiceImpl) Approve(ctx context.Context, ref RequestRef, actor Actor, input ActionInput) (*Decision, error) {
	dec, err := s.engine.Approve(ctx, ref, actor, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info("step approved",
		zap.String("request", ref.String()),
		zap.Int("level", dec.Step.Level),
		zap.Uint("actorId", actor.ID),
	)
	s.dispatcher.Dispatch(ctx, dec.Events)
	return dec, nil
}

func (s *ApprovalServiceImpl) Reject(ctx context.Context, ref RequestRef, actor Actor, reason string) (*Decision, error) {
	dec, err := s.engine.Reject(ctx, ref, actor, reason)
	if err != nil {
		return nil, err
	}
	s.logger.Info("request rejected",
		zap.String("request", ref.String()),
		zap.Int("level", dec.Step.Level),
		zap.Uint("actorId", actor.ID),
	)
	s.dispatcher.Dispatch(ctx, dec.Events)
	return dec, nil
}

func (s *ApprovalServiceImpl) Steps(ctx context.Context, ref RequestRef) ([]Step, error) {
	if _, err := s.registry.For(ref.Kind); err != nil {
		return nil, err
	}
	return s.steps.ListForRequest(ctx, ref)
}

// PendingForApprover returns the actor's inbox: pending steps that are
// actionable now, i.e. at their request's current level. Request states are
// fetched in one batch per kind.
func (s *ApprovalServiceImpl) PendingForApprover(ctx context.Context, approverID uint) ([]Step, error) {
	pending, err := s.steps.ListPendingForApprover(ctx, approverID)
	if err != nil {
		return nil, err
	}

	byKind := make(map[string][]uint)
	for _, step := range pending {
		byKind[step.RequestKind] = append(byKind[step.RequestKind], step.RequestID)
	}

	db := s.db.WithContext(ctx)
	states := make(map[RequestRef]RequestState, len(pending))
	for kind, ids := range byKind {
		acc, err := s.registry.For(kind)
		if err != nil {
			continue
		}
		kindStates, err := acc.States(db, ids)
		if err != nil {
			return nil, err
		}
		for id, state := range kindStates {
			states[RequestRef{Kind: kind, ID: id}] = state
		}
	}

	actionable := make([]Step, 0, len(pending))
	for _, step := range pending {
		state, ok := states[step.Ref()]
		if !ok {
			continue
		}
		if state.Status == StatusPending && state.CurrentLevel == step.Level {
			actionable = append(actionable, step)
		}
	}
	return actionable, nil
}
