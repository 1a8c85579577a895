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

type ProjectHandler struct {
	projectService *service.ProjectService
	authmw         *middleware.Auth
}

func NewProjectHandler(projectService *service.ProjectService, authmw *middleware.Auth) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, authmw: authmw}
}

func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	// Public
	r.Get("/", h.listProjects)
	r.Get("/featured", h.listFeaturedProjects)
	r.Get("/{id}", h.getProject)

	// Projects carry no owner field; every mutation is gated purely by
	// role at the route.
	r.Group(func(ownerOnly chi.Router) {
		ownerOnly.Use(h.authmw.Authenticate)
		ownerOnly.Use(middleware.RequireRole(model.RoleOwner))
		ownerOnly.Post("/", h.addProject)
		ownerOnly.Put("/{id}", h.updateProject)
		ownerOnly.Delete("/{id}", h.deleteProject)
	})
}

func (h *ProjectHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	query := service.ProjectListQuery{
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
		Status:   model.ProjectStatus(r.URL.Query().Get("status")),
		Tech:     r.URL.Query().Get("tech"),
		Search:   r.URL.Query().Get("search"),
		Featured: queryBool(r, "featured"),
	}

	projects, pagination, err := h.projectService.ListProjects(r.Context(), query)
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to retrieve projects")
		return
	}
	common.RespondWithPage(w, http.StatusOK, "Projects retrieved successfully", projects, pagination)
}

func (h *ProjectHandler) listFeaturedProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.GetFeaturedProjects(r.Context(), queryInt(r, "limit"))
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to retrieve featured projects")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Featured projects retrieved successfully", projects)
}

func (h *ProjectHandler) getProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to retrieve project")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Project retrieved successfully", project)
}

func (h *ProjectHandler) addProject(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	project, err := h.projectService.AddProject(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to create project")
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, "Project created successfully", project)
}

func (h *ProjectHandler) updateProject(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to update project")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Project updated successfully", project)
}

func (h *ProjectHandler) deleteProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.DeleteProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to delete project")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Project deleted successfully", project)
}
