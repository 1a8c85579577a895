package handler

import (
	"encoding/json"
	"net/http"

	"github.com/proditto/portfolio-api/internal/api/middleware"
	"github.com/proditto/portfolio-api/internal/app/service"
	"github.com/proditto/portfolio-api/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	authmw      *middleware.Auth
}

func NewAuthHandler(authService *service.AuthService, authmw *middleware.Auth) *AuthHandler {
	return &AuthHandler{authService: authService, authmw: authmw}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(protected chi.Router) {
		protected.Use(h.authmw.Authenticate)
		protected.Get("/profile", h.getProfile)
		protected.Patch("/profile", h.updateProfile)
		protected.Patch("/change-password", h.changePassword)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to register user")
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, "User registered successfully", resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err, "Login failed")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	user, err := h.authService.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to fetch user profile")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Profile retrieved successfully", user)
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), identity.UserID, req)
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to update profile")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Profile updated successfully", user)
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		common.RespondWithDomainError(w, err, "Failed to change password")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Password changed successfully", nil)
}
