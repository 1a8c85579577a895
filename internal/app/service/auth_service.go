package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/common/security"
	"github.com/proditto/portfolio-api/internal/domain/model"
	"github.com/proditto/portfolio-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type AuthService struct {
	userRepo repository.UserRepository
	rdb      *redis.Client

	loginMaxAttempts   int
	loginAttemptWindow time.Duration
}

// NewAuthService wires the credential store and the redis client backing
// the login throttle. A nil redis client disables throttling.
func NewAuthService(userRepo repository.UserRepository, rdb *redis.Client, maxAttempts int, attemptWindow time.Duration) *AuthService {
	return &AuthService{
		userRepo:           userRepo,
		rdb:                rdb,
		loginMaxAttempts:   maxAttempts,
		loginAttemptWindow: attemptWindow,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
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
		Role:           model.RoleRegular, // Always regular regardless of input
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.NewError(common.ErrDuplicateEmail, "User with this email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := security.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = "" // Clear hash before returning
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validateRequired(
		field{"email", req.Email},
		field{"password", req.Password},
	); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.checkLoginThrottle(ctx, email); err != nil {
		return nil, err
	}

	// Unknown email and wrong password produce the identical message so a
	// caller cannot probe which accounts exist.
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.recordLoginFailure(ctx, email)
			return nil, common.NewError(common.ErrUnauthenticated, "Invalid email or password")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		s.recordLoginFailure(ctx, email)
		return nil, common.NewError(common.ErrUnauthenticated, "Invalid email or password")
	}

	s.resetLoginFailures(ctx, email)

	token, err := security.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

// UpdateProfile changes name and email only; role and password cannot be
// touched through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		if err := validateEmail(req.Email); err != nil {
			return nil, err
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		taken, err := s.userRepo.EmailTakenByOther(ctx, email, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, common.NewError(common.ErrValidation, "Email is already taken by another user")
		}
		user.Email = email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.NewError(common.ErrValidation, "Email is already taken by another user")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

// ChangePassword does not invalidate previously issued tokens; they remain
// valid until natural expiry.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewError(common.ErrNotFound, "User not found")
		}
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	if !security.CheckPasswordHash(currentPassword, user.HashedPassword) {
		return common.NewError(common.ErrValidation, "Current password is incorrect")
	}

	hashedPassword, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashedPassword

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// SeedOwner creates the owner account on first boot if none exists.
func (s *AuthService) SeedOwner(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		log.Println("Owner seed skipped: OWNER_NAME, OWNER_EMAIL or OWNER_PASSWORD not set")
		return nil
	}

	exists, err := s.userRepo.OwnerExists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for owner user: %w", err)
	}
	if exists {
		return nil
	}

	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash owner password: %w", err)
	}

	owner := &model.User{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(name),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		HashedPassword: hashedPassword,
		Role:           model.RoleOwner,
	}
	if err := s.userRepo.Create(ctx, owner); err != nil {
		return fmt.Errorf("failed to seed owner user: %w", err)
	}
	log.Printf("Owner user %s created", owner.Email)
	return nil
}

func loginAttemptsKey(email string) string {
	return "login_attempts:" + email
}

func (s *AuthService) checkLoginThrottle(ctx context.Context, email string) error {
	if s.rdb == nil || s.loginMaxAttempts <= 0 {
		return nil
	}
	count, err := s.rdb.Get(ctx, loginAttemptsKey(email)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("WARN: login throttle check failed for %s: %v", email, err)
		return nil
	}
	if count >= s.loginMaxAttempts {
		return common.NewError(common.ErrUnauthenticated, "Too many login attempts. Try again later.")
	}
	return nil
}

func (s *AuthService) recordLoginFailure(ctx context.Context, email string) {
	if s.rdb == nil || s.loginMaxAttempts <= 0 {
		return
	}
	key := loginAttemptsKey(email)
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("WARN: failed to record login failure for %s: %v", email, err)
		return
	}
	if count == 1 {
		s.rdb.Expire(ctx, key, s.loginAttemptWindow)
	}
}

func (s *AuthService) resetLoginFailures(ctx context.Context, email string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, loginAttemptsKey(email)).Err(); err != nil {
		log.Printf("WARN: failed to reset login failures for %s: %v", email, err)
	}
}
