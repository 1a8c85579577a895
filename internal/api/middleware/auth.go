package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/common/security"
	"github.com/proditto/portfolio-api/internal/domain/model"
	"github.com/proditto/portfolio-api/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const identityCtxKey contextKey = "identity"

// Auth authenticates requests against the credential store. The user
// record is re-read on every request: the token only proves who the caller
// is, the stored record decides what they currently are. A role demotion
// therefore takes effect on the next request, not at token expiry.
type Auth struct {
	userRepo repository.UserRepository
}

func NewAuth(userRepo repository.UserRepository) *Auth {
	return &Auth{userRepo: userRepo}
}

func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			common.RespondWithError(w, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		if !security.Configured() {
			common.RespondWithError(w, http.StatusInternalServerError, "JWT secret not configured")
			return
		}

		token, claims, err := jwtauth.FromContext(r.Context()) // filled in by jwtauth.Verifier
		if err != nil || token == nil {
			if errors.Is(err, jwtauth.ErrExpired) {
				common.RespondWithError(w, http.StatusUnauthorized, "Token expired.")
				return
			}
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token.")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token.")
			return
		}

		// Fresh lookup: claims are never trusted for role or email. This
		// also rejects valid tokens for since-deleted users.
		user, err := a.userRepo.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token. User not found.")
				return
			}
			log.Printf("ERROR: user lookup during authentication failed: %v", err)
			common.RespondWithError(w, http.StatusInternalServerError, "Token verification failed.")
			return
		}

		identity := model.Identity{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
		}
		ctx := context.WithValue(r.Context(), identityCtxKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route on an exact role. It must sit behind
// Authenticate.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}
			if identity.Role != role {
				message := "Access denied. " + string(role) + " role required."
				if role == model.RoleOwner {
					message = "Access denied. Owner privileges required."
				}
				common.RespondWithError(w, http.StatusForbidden, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext returns the authenticated caller attached by
// Authenticate.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(model.Identity)
	return identity, ok
}
