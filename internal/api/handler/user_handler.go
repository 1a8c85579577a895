package handler

import (
	"encoding/json"
	"net/http"

	"github.com/proditto/portfolio-api/internal/api/middleware"
	"github.com/proditto/portfolio-api/internal/app/service"
	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
	authmw      *middleware.Auth
}

func NewUserHandler(userService *service.UserService, authmw *middleware.Auth) *UserHandler {
	return &UserHandler{userService: userService, authmw: authmw}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.authmw.Authenticate)

	r.With(middleware.RequireRole(model.RoleOwner)).Get("/", h.allUsers)
	r.With(middleware.RequireRole(model.RoleOwner)).Post("/", h.createUser)
	r.Get("/{id}", h.getUser)
	r.Patch("/{id}", h.updateUser)
	r.Delete("/{id}", h.deleteUser)
}

func (h *UserHandler) allUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.AllUsers(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to retrieve users")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to create user")
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, "User created successfully", user)
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to retrieve user")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), identity, chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to update user")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	user, err := h.userService.DeleteUser(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to delete user")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "User deleted successfully", user)
}
