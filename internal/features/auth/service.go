package auth

import (
	"context"

	"go-hrms/internal/features/user"
	"go-hrms/pkg/utils"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *user.User, error)
}

type AuthServiceImpl struct {
	users user.UserService
}

func NewAuthService(users user.UserService) AuthService {
	return &AuthServiceImpl{users: users}
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.users.Verify(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateToken(u.ID, u.Name, u.RoleNames())
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
