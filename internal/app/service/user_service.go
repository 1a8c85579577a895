package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/common/security"
	"github.com/proditto/portfolio-api/internal/domain/model"
	"github.com/proditto/portfolio-api/internal/domain/repository"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role,omitempty"`
}

type UpdateUserRequest struct {
	Name     *string     `json:"name,omitempty"`
	Email    *string     `json:"email,omitempty"`
	Password *string     `json:"password,omitempty"`
	Role     *model.Role `json:"role,omitempty"`
}

// CreateUser is the administrative path; the route gate restricts it to
// owners, which is why a role may be assigned here unlike registration.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	if err := validateRequired(
		field{"name", req.Name},
		field{"email", req.Email},
		field{"password", req.Password},
	); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = model.RoleRegular
	}
	if !role.Valid() {
		return nil, common.NewError(common.ErrValidation, "Invalid role. Must be 'regular' or 'owner'")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, common.NewError(common.ErrDuplicateEmail, "User with this email already exists")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.NewError(common.ErrDuplicateEmail, "User with this email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrValidation, "Invalid user ID format")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) AllUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}

// UpdateUser applies the self-or-owner policy: regular users may only
// modify their own record, and only an owner may change a role.
// Existence is checked before permission so a missing id is always a 404.
func (s *UserService) UpdateUser(ctx context.Context, identity model.Identity, id string, req UpdateUserRequest) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrValidation, "Invalid user ID format")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !canModifyUser(identity, user) {
		return nil, common.NewError(common.ErrPermissionDenied, "You don't have permission to update this user")
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && *req.Email != "" {
		if err := validateEmail(*req.Email); err != nil {
			return nil, err
		}
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := s.userRepo.EmailTakenByOther(ctx, email, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, common.NewError(common.ErrValidation, "Email is already taken by another user")
		}
		user.Email = email
	}
	if req.Password != nil && *req.Password != "" {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hashedPassword, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashedPassword
	}
	if req.Role != nil && *req.Role != "" {
		if identity.Role != model.RoleOwner {
			return nil, common.NewError(common.ErrPermissionDenied, "Only owners can change user roles")
		}
		if !req.Role.Valid() {
			return nil, common.NewError(common.ErrValidation, "Invalid role. Must be 'regular' or 'owner'")
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.NewError(common.ErrValidation, "Email is already taken by another user")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, identity model.Identity, id string) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrValidation, "Invalid user ID format")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !canModifyUser(identity, user) {
		return nil, common.NewError(common.ErrPermissionDenied, "You don't have permission to delete this user")
	}
	if user.Role == model.RoleOwner {
		return nil, common.NewError(common.ErrValidation, "Cannot delete owner users")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

func canModifyUser(identity model.Identity, target *model.User) bool {
	return identity.Role == model.RoleOwner || identity.UserID == target.ID
}
