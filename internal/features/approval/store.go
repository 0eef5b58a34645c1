package approval

import (
	"context"
	"errors"
	"time"

	"go-hrms/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StepStore owns the approval_steps table. The engine is its only writer;
// mutating methods take the engine's transaction.
type StepStore interface {
	CountForRequest(tx *gorm.DB, ref RequestRef) (int64, error)
	CreateAll(tx *gorm.DB, steps []Step) error

	// LockPending reads the pending step at the given level under an
	// exclusive row lock, so concurrent actions on the same request
	// serialize. Returns nil when no such step exists.
	LockPending(tx *gorm.DB, ref RequestRef, level int) (*Step, error)

	// LockPendingForApprover additionally filters on the designated
	// approver; rejection has no admin override.
	LockPendingForApprover(tx *gorm.DB, ref RequestRef, level int, approverID uint) (*Step, error)

	GetAtLevel(tx *gorm.DB, ref RequestRef, level int) (*Step, error)
	Finalize(tx *gorm.DB, stepID uint, status Status, actedAt time.Time, note, signature string) error

	// VoidAbove rejects every step beyond the given level in one set-based
	// update, preserving the audit trail instead of deleting rows.
	VoidAbove(tx *gorm.DB, ref RequestRef, level int, note string) error

	ListForRequest(ctx context.Context, ref RequestRef) ([]Step, error)
	ListPendingForApprover(ctx context.Context, approverID uint) ([]Step, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]Step, error)
}

type StepStoreImpl struct {
	db *gorm.DB
}

func NewStepStore(gdb *database.GormDB) StepStore { return &StepStoreImpl{db: gdb.DB} }

func (s *StepStoreImpl) CountForRequest(tx *gorm.DB, ref RequestRef) (int64, error) {
	var n int64
	err := tx.Model(&Step{}).
		Where("request_kind = ? AND request_id = ?", ref.Kind, ref.ID).
		Count(&n).Error
	return n, err
}

func (s *StepStoreImpl) CreateAll(tx *gorm.DB, steps []Step) error {
	return tx.Create(&steps).Error
}

func (s *StepStoreImpl) LockPending(tx *gorm.DB, ref RequestRef, level int) (*Step, error) {
	var step Step
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_kind = ? AND request_id = ? AND level = ? AND status = ?",
			ref.Kind, ref.ID, level, StatusPending).
		Take(&step).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &step, nil
}

func (s *StepStoreImpl) LockPendingForApprover(tx *gorm.DB, ref RequestRef, level int, approverID uint) (*Step, error) {
	var step Step
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_kind = ? AND request_id = ? AND level = ? AND status = ? AND approver_id = ?",
			ref.Kind, ref.ID, level, StatusPending, approverID).
		Take(&step).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &step, nil
}

func (s *StepStoreImpl) GetAtLevel(tx *gorm.DB, ref RequestRef, level int) (*Step, error) {
	var step Step
	err := tx.Where("request_kind = ? AND request_id = ? AND level = ?", ref.Kind, ref.ID, level).
		Take(&step).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &step, nil
}

func (s *StepStoreImpl) Finalize(tx *gorm.DB, stepID uint, status Status, actedAt time.Time, note, signature string) error {
	updates := map[string]interface{}{
		"status":   status,
		"acted_at": actedAt,
		"note":     note,
	}
	if signature != "" {
		updates["signature"] = signature
	}
	return tx.Model(&Step{}).Where("id = ?", stepID).Updates(updates).Error
}

func (s *StepStoreImpl) VoidAbove(tx *gorm.DB, ref RequestRef, level int, note string) error {
	return tx.Model(&Step{}).
		Where("request_kind = ? AND request_id = ? AND level > ?", ref.Kind, ref.ID, level).
		Updates(map[string]interface{}{
			"status": StatusRejected,
			"note":   note,
		}).Error
}

func (s *StepStoreImpl) ListForRequest(ctx context.Context, ref RequestRef) ([]Step, error) {
	var steps []Step
	err := s.db.WithContext(ctx).
		Where("request_kind = ? AND request_id = ?", ref.Kind, ref.ID).
		Order("level ASC").
		Find(&steps).Error
	return steps, err
}

func (s *StepStoreImpl) ListPendingForApprover(ctx context.Context, approverID uint) ([]Step, error) {
	var steps []Step
	err := s.db.WithContext(ctx).
		Where("approver_id = ? AND status = ?", approverID, StatusPending).
		Order("created_at ASC").
		Find(&steps).Error
	return steps, err
}

func (s *StepStoreImpl) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]Step, error) {
	var steps []Step
	err := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", StatusPending, cutoff).
		Order("created_at ASC").
		Find(&steps).Error
	return steps, err
}
