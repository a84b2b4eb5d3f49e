package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages factory accounts (ADMIN only at the route level).
type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateUserInput is the admin user-creation request.
type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return nil, fmt.Errorf("%w: email, password and name are required", ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	count, err := s.repo.CountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: email already exists", ErrConflict)
	}

	role := input.Role
	if role == "" {
		role = entity.RoleOperator
	}
	switch role {
	case entity.RoleAdmin, entity.RoleOperator, entity.RoleQuality:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:       newID(),
		Email:    email,
		Password: string(hashed),
		Name:     input.Name,
		Role:     role,
		Active:   true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserInput carries optional account edits.
type UpdateUserInput struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
	Password *string `json:"password"`
}

func (s *UserService) UpdateUser(ctx context.Context, id string, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		switch *input.Role {
		case entity.RoleAdmin, entity.RoleOperator, entity.RoleQuality:
			user.Role = *input.Role
		default:
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *input.Role)
		}
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if input.Password != nil && *input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
