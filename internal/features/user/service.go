package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*User, error)
	Get(ctx context.Context, id uint) (*User, error)
	List(ctx context.Context, branchID *uint, page, limit int) ([]User, int64, error)
	ManagerChain(ctx context.Context, userID uint, max int) ([]uint, error)
	Verify(ctx context.Context, email, password string) (*User, error)
}

type CreateUserInput struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Position  string   `json:"position"`
	BranchID  *uint    `json:"branch_id"`
	ManagerID *uint    `json:"manager_id"`
	Roles     []string `json:"roles"`
}

type UserServiceImpl struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{repo: repo}
}

func (s *UserServiceImpl) Create(ctx context.Context, input CreateUserInput) (*User, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, errors.New("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         input.Name,
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hash),
		Position:     input.Position,
		BranchID:     input.BranchID,
		ManagerID:    input.ManagerID,
		Active:       true,
	}
	for _, name := range input.Roles {
		role, err := s.repo.FindRoleByName(ctx, name)
		if err != nil {
			return nil, errors.New("unknown role: " + name)
		}
		user.Roles = append(user.Roles, *role)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) Get(ctx context.Context, id uint) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserServiceImpl) List(ctx context.Context, branchID *uint, page, limit int) ([]User, int64, error) {
	return s.repo.List(ctx, branchID, page, limit)
}

func (s *UserServiceImpl) ManagerChain(ctx context.Context, userID uint, max int) ([]uint, error) {
	return s.repo.ManagerChain(ctx, userID, max)
}

func (s *UserServiceImpl) Verify(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !user.Active {
		return nil, errors.New("user disabled")
	}
	return user, nil
}
