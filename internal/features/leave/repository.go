package leave

import (
	"context"
	"errors"
	"fmt"

	"go-hrms/internal/database"
	"go-hrms/internal/features/approval"

	"gorm.io/gorm"
)

type LeaveRepository interface {
	Create(ctx context.Context, request *LeaveRequest) error
	GetByID(ctx context.Context, id uint) (*LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID uint, page, limit int) ([]LeaveRequest, int64, error)
	List(ctx context.Context, status approval.Status, page, limit int) ([]LeaveRequest, int64, error)

	// MarkDeducted stamps deducted_at once; it reports false when another
	// delivery already claimed the deduction.
	MarkDeducted(ctx context.Context, id uint) (bool, error)

	GetBalance(ctx context.Context, employeeID uint, leaveType LeaveType, year int) (*LeaveBalance, error)
	ListBalances(ctx context.Context, employeeID uint, year int) ([]LeaveBalance, error)
	CreateBalance(ctx context.Context, balance *LeaveBalance) error
	AddUsed(ctx context.Context, employeeID uint, leaveType LeaveType, year int, days float64) error
}

type LeaveRepositoryImpl struct {
	db *gorm.DB
}

func NewLeaveRepository(gdb *database.GormDB) LeaveRepository {
	return &LeaveRepositoryImpl{db: gdb.DB}
}

func (r *LeaveRepositoryImpl) Create(ctx context.Context, request *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *LeaveRepositoryImpl) GetByID(ctx context.Context, id uint) (*LeaveRequest, error) {
	var request LeaveRequest
	err := r.db.WithContext(ctx).Take(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("leave request %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, err
	}
	return &request, nil
}

func (r *LeaveRepositoryImpl) ListByEmployee(ctx context.Context, employeeID uint, page, limit int) ([]LeaveRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []LeaveRequest
	err := query.
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

func (r *LeaveRepositoryImpl) List(ctx context.Context, status approval.Status, page, limit int) ([]LeaveRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&LeaveRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []LeaveRequest
	err := query.
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

func (r *LeaveRepositoryImpl) MarkDeducted(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&LeaveRequest{}).
		Where("id = ? AND deducted_at IS NULL", id).
		Update("deducted_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *LeaveRepositoryImpl) GetBalance(ctx context.Context, employeeID uint, leaveType LeaveType, year int) (*LeaveBalance, error) {
	var balance LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND type = ? AND year = ?", employeeID, leaveType, year).
		Take(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *LeaveRepositoryImpl) ListBalances(ctx context.Context, employeeID uint, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("type ASC").
		Find(&balances).Error
	return balances, err
}

func (r *LeaveRepositoryImpl) CreateBalance(ctx context.Context, balance *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(balance).Error
}

func (r *LeaveRepositoryImpl) AddUsed(ctx context.Context, employeeID uint, leaveType LeaveType, year int, days float64) error {
	return r.db.WithContext(ctx).Model(&LeaveBalance{}).
		Where("employee_id = ? AND type = ? AND year = ?", employeeID, leaveType, year).
		Update("used", gorm.Expr("used + ?", days)).Error
}
