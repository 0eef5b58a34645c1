package reimbursement

import (
	"context"
	"errors"
	"fmt"

	"go-hrms/internal/database"
	"go-hrms/internal/features/approval"

	"gorm.io/gorm"
)

type ReimbursementRepository interface {
	Create(ctx context.Context, request *ReimbursementRequest) error
	GetByID(ctx context.Context, id uint) (*ReimbursementRequest, error)
	ListByEmployee(ctx context.Context, employeeID uint, page, limit int) ([]ReimbursementRequest, int64, error)
	List(ctx context.Context, status approval.Status, page, limit int) ([]ReimbursementRequest, int64, error)
}

type ReimbursementRepositoryImpl struct {
	db *gorm.DB
}

func NewReimbursementRepository(gdb *database.GormDB) ReimbursementRepository {
	return &ReimbursementRepositoryImpl{db: gdb.DB}
}

func (r *ReimbursementRepositoryImpl) Create(ctx context.Context, request *ReimbursementRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *ReimbursementRepositoryImpl) GetByID(ctx context.Context, id uint) (*ReimbursementRequest, error) {
	var request ReimbursementRequest
	err := r.db.WithContext(ctx).Take(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reimbursement request %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, err
	}
	return &request, nil
}

func (r *ReimbursementRepositoryImpl) ListByEmployee(ctx context.Context, employeeID uint, page, limit int) ([]ReimbursementRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&ReimbursementRequest{}).
		Where("employee_id = ?", employeeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []ReimbursementRequest
	err := query.
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

func (r *ReimbursementRepositoryImpl) List(ctx context.Context, status approval.Status, page, limit int) ([]ReimbursementRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&ReimbursementRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []ReimbursementRequest
	err := query.
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}
