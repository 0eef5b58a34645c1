package approval

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// RequestAccessor reads and writes the engine-owned fields of one request
// kind. All calls happen inside the engine's transaction; implementations
// must use the tx they are given, never a connection of their own.
type RequestAccessor interface {
	Kind() string
	State(tx *gorm.DB, id uint) (*RequestState, error)

	// States reads the state of many requests in one query; ids that do not
	// exist are simply absent from the result.
	States(tx *gorm.DB, ids []uint) (map[uint]RequestState, error)

	SetCurrentLevel(tx *gorm.DB, id uint, level int) error
	SetStatus(tx *gorm.DB, id uint, status Status, rejectionReason string) error
}

// Registry resolves accessors by request kind. Request features register
// themselves through the fx "approvables" group.
type Registry struct {
	accessors map[string]RequestAccessor
}

func NewRegistry(accessors []RequestAccessor) *Registry {
	m := make(map[string]RequestAccessor, len(accessors))
	for _, a := range accessors {
		m[a.Kind()] = a
	}
	return &Registry{accessors: m}
}

func (r *Registry) For(kind string) (RequestAccessor, error) {
	a, ok := r.accessors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequestKind, kind)
	}
	return a, nil
}

func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.accessors))
	for k := range r.accessors {
		kinds = append(kinds, k)
	}
	return kinds
}

// TableAccessor is the shared gorm implementation of RequestAccessor. Every
// request table carries the same three engine-owned columns, so a kind only
// needs to name its table.
type TableAccessor struct {
	KindName string
	Table    string
}

func (t TableAccessor) Kind() string { return t.KindName }

func (t TableAccessor) State(tx *gorm.DB, id uint) (*RequestState, error) {
	var state RequestState
	err := tx.Table(t.Table).
		Select("current_level", "status", "rejection_reason").
		Where("id = ?", id).
		Take(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %d: %w", t.KindName, id, gorm.ErrRecordNotFound)
		}
		return nil, err
	}
	return &state, nil
}

func (t TableAccessor) States(tx *gorm.DB, ids []uint) (map[uint]RequestState, error) {
	states := make(map[uint]RequestState, len(ids))
	if len(ids) == 0 {
		return states, nil
	}
	var rows []struct {
		ID              uint
		CurrentLevel    int
		Status          Status
		RejectionReason string
	}
	err := tx.Table(t.Table).
		Select("id", "current_level", "status", "rejection_reason").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		states[r.ID] = RequestState{
			CurrentLevel:    r.CurrentLevel,
			Status:          r.Status,
			RejectionReason: r.RejectionReason,
		}
	}
	return states, nil
}

func (t TableAccessor) SetCurrentLevel(tx *gorm.DB, id uint, level int) error {
	return tx.Table(t.Table).
		Where("id = ?", id).
		Update("current_level", level).Error
}

func (t TableAccessor) SetStatus(tx *gorm.DB, id uint, status Status, rejectionReason string) error {
	updates := map[string]interface{}{"status": status}
	if rejectionReason != "" {
		updates["rejection_reason"] = rejectionReason
	}
	return tx.Table(t.Table).
		Where("id = ?", id).
		Updates(updates).Error
}
