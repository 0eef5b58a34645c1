package user

import (
	"context"
	"errors"
	"fmt"

	"go-hrms/internal/database"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, branchID *uint, page, limit int) ([]User, int64, error)
	Update(ctx context.Context, user *User) error

	// ManagerChain walks manager_id upward from the given user, returning up
	// to max manager IDs in reporting order. Used to derive default approver
	// chains.
	ManagerChain(ctx context.Context, userID uint, max int) ([]uint, error)

	FindRoleByName(ctx context.Context, name string) (*Role, error)
	CreateRole(ctx context.Context, role *Role) error
	CreateBranch(ctx context.Context, branch *Branch) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(gdb *database.GormDB) UserRepository {
	return &UserRepositoryImpl{db: gdb.DB}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Branch").
		Take(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("email = ?", email).
		Take(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context, branchID *uint, page, limit int) ([]User, int64, error) {
	query := r.db.WithContext(ctx).Model(&User{})
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := query.
		Preload("Roles").
		Preload("Branch").
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *UserRepositoryImpl) ManagerChain(ctx context.Context, userID uint, max int) ([]uint, error) {
	chain := make([]uint, 0, max)
	currentID := userID
	for len(chain) < max {
		var row struct{ ManagerID *uint }
		err := r.db.WithContext(ctx).Model(&User{}).
			Select("manager_id").
			Where("id = ?", currentID).
			Take(&row).Error
		if err != nil {
			return nil, err
		}
		if row.ManagerID == nil {
			break
		}
		chain = append(chain, *row.ManagerID)
		currentID = *row.ManagerID
	}
	return chain, nil
}

func (r *UserRepositoryImpl) FindRoleByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := r.db.WithContext(ctx).Where("name = ?", name).Take(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *UserRepositoryImpl) CreateRole(ctx context.Context, role *Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *UserRepositoryImpl) CreateBranch(ctx context.Context, branch *Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}
