package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proditto/portfolio-api/internal/app/service"
	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/common/security"
	"github.com/proditto/portfolio-api/internal/domain/model"
)

func newAuthService(t *testing.T) (*service.AuthService, *memUserRepo) {
	t.Helper()
	security.InitJWTForTest([]byte("test-secret"))
	repo := newMemUserRepo()
	return service.NewAuthService(repo, nil, 0, 0), repo
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	tests := []struct {
		name    string
		req     service.RegisterRequest
		message string
	}{
		{
			name:    "missing everything",
			req:     service.RegisterRequest{},
			message: "Missing required fields: name, email, password",
		},
		{
			name:    "blank name",
			req:     service.RegisterRequest{Name: "   ", Email: "a@b.co", Password: "secret1"},
			message: "Missing required fields: name",
		},
		{
			name:    "bad email",
			req:     service.RegisterRequest{Name: "Ann", Email: "not-an-email", Password: "secret1"},
			message: "Invalid email format",
		},
		{
			name:    "short password",
			req:     service.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "12345"},
			message: "Password must be at least 6 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.True(t, errors.Is(err, common.ErrValidation))
		})
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _ := newAuthService(t)

	registered, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:     "Ann",
		Email:    "Ann@Example.COM ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", registered.User.Email, "email must be lowercased and trimmed")
	assert.Equal(t, model.RoleRegular, registered.User.Role, "registration always assigns the regular role")
	assert.Empty(t, registered.User.HashedPassword)
	require.NotEmpty(t, registered.Token)

	loggedIn, err := svc.Login(context.Background(), service.LoginRequest{
		Email:    "ann@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.Empty(t, loggedIn.User.HashedPassword)

	// The token's user_id claim must match the registered user.
	token, err := security.TokenAuth.Decode(loggedIn.Token)
	require.NoError(t, err)
	claim, ok := token.Get("user_id")
	require.True(t, ok)
	assert.Equal(t, registered.User.ID, claim)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	req := service.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "User with this email already exists", err.Error())
	assert.True(t, errors.Is(err, common.ErrDuplicateEmail))
}

func TestLoginHidesFailureCause(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), service.RegisterRequest{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, wrongPass := svc.Login(context.Background(), service.LoginRequest{
		Email: "ann@example.com", Password: "wrong-password",
	})
	_, unknownEmail := svc.Login(context.Background(), service.LoginRequest{
		Email: "nobody@example.com", Password: "secret1",
	})

	require.Error(t, wrongPass)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPass.Error(), unknownEmail.Error(),
		"wrong password and unknown email must be indistinguishable")
	assert.Equal(t, "Invalid email or password", wrongPass.Error())
	assert.True(t, errors.Is(wrongPass, common.ErrUnauthenticated))
}

func TestLoginThrottle(t *testing.T) {
	security.InitJWTForTest([]byte("test-secret"))
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := newMemUserRepo()
	svc := service.NewAuthService(repo, rdb, 3, 15*time.Minute)

	_, err := svc.Register(context.Background(), service.RegisterRequest{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(context.Background(), service.LoginRequest{
			Email: "ann@example.com", Password: "wrong-password",
		})
		require.Error(t, err)
		assert.Equal(t, "Invalid email or password", err.Error())
	}

	// Window exhausted: even the correct password is refused.
	_, err = svc.Login(context.Background(), service.LoginRequest{
		Email: "ann@example.com", Password: "secret1",
	})
	require.Error(t, err)
	assert.Equal(t, "Too many login attempts. Try again later.", err.Error())

	// The counter expires with the window.
	mr.FastForward(16 * time.Minute)
	resp, err := svc.Login(context.Background(), service.LoginRequest{
		Email: "ann@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService(t)

	registered, err := svc.Register(context.Background(), service.RegisterRequest{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	userID := registered.User.ID

	err = svc.ChangePassword(context.Background(), userID, "nope", "newsecret")
	require.Error(t, err)
	assert.Equal(t, "Current password is incorrect", err.Error())

	err = svc.ChangePassword(context.Background(), userID, "secret1", "short")
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 6 characters long", err.Error())

	require.NoError(t, svc.ChangePassword(context.Background(), userID, "secret1", "newsecret"))

	_, err = svc.Login(context.Background(), service.LoginRequest{
		Email: "ann@example.com", Password: "secret1",
	})
	require.Error(t, err, "old password must stop working")

	_, err = svc.Login(context.Background(), service.LoginRequest{
		Email: "ann@example.com", Password: "newsecret",
	})
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newAuthService(t)

	ann, err := svc.Register(context.Background(), service.RegisterRequest{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), service.RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), ann.User.ID, service.UpdateProfileRequest{
		Email: "bob@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, "Email is already taken by another user", err.Error())

	updated, err := svc.UpdateProfile(context.Background(), ann.User.ID, service.UpdateProfileRequest{
		Name:  "Ann Smith",
		Email: "ann.smith@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", updated.Name)
	assert.Equal(t, "ann.smith@example.com", updated.Email)
}

func TestSeedOwner(t *testing.T) {
	svc, repo := newAuthService(t)

	require.NoError(t, svc.SeedOwner(context.Background(), "Owner", "owner@example.com", "ownerpass"))

	exists, err := repo.OwnerExists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)

	owner, err := repo.FindByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, owner.Role)

	// Idempotent: a second boot does not create another owner.
	require.NoError(t, svc.SeedOwner(context.Background(), "Owner", "owner2@example.com", "ownerpass"))
	_, err = repo.FindByEmail(context.Background(), "owner2@example.com")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
