package overtime

import (
	"context"
	"errors"
	"fmt"

	"go-hrms/internal/database"
	"go-hrms/internal/features/approval"

	"gorm.io/gorm"
)

type OvertimeRepository interface {
	Create(ctx context.Context, request *OvertimeRequest) error
	GetByID(ctx context.Context, id uint) (*OvertimeRequest, error)
	ListByEmployee(ctx context.Context, employeeID uint, page, limit int) ([]OvertimeRequest, int64, error)
	List(ctx context.Context, status approval.Status, page, limit int) ([]OvertimeRequest, int64, error)
}

type OvertimeRepositoryImpl struct {
	db *gorm.DB
}

func NewOvertimeRepository(gdb *database.GormDB) OvertimeRepository {
	return &OvertimeRepositoryImpl{db: gdb.DB}
}

func (r *OvertimeRepositoryImpl) Create(ctx context.Context, request *OvertimeRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *OvertimeRepositoryImpl) GetByID(ctx context.Context, id uint) (*OvertimeRequest, error) {
	var request OvertimeRequest
	err := r.db.WithContext(ctx).Take(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("overtime request %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, err
	}
	return &request, nil
}

func (r *OvertimeRepositoryImpl) ListByEmployee(ctx context.Context, employeeID uint, page, limit int) ([]OvertimeRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&OvertimeRequest{}).
		Where("employee_id = ?", employeeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []OvertimeRequest
	err := query.
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

func (r *OvertimeRepositoryImpl) List(ctx context.Context, status approval.Status, page, limit int) ([]OvertimeRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&OvertimeRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []OvertimeRequest
	err := query.
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}
