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

type BlogHandler struct {
	blogService *service.BlogService
	authmw      *middleware.Auth
}

func NewBlogHandler(blogService *service.BlogService, authmw *middleware.Auth) *BlogHandler {
	return &BlogHandler{blogService: blogService, authmw: authmw}
}

func (h *BlogHandler) RegisterRoutes(r chi.Router) {
	// Public
	r.Get("/", h.listBlogs)
	r.Get("/published", h.listPublishedBlogs)
	r.Get("/author/{authorId}", h.listBlogsByAuthor)
	r.Get("/{id}", h.getBlog)

	// Creation is owner-only; update/delete only authenticate here, the
	// owner-or-author check runs in the service against the loaded blog.
	r.Group(func(protected chi.Router) {
		protected.Use(h.authmw.Authenticate)
		protected.With(middleware.RequireRole(model.RoleOwner)).Post("/", h.createBlog)
		protected.Patch("/{id}", h.updateBlog)
		protected.Delete("/{id}", h.deleteBlog)
	})
}

func blogQuery(r *http.Request) service.BlogListQuery {
	return service.BlogListQuery{
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
		Category:  r.URL.Query().Get("category"),
		Search:    r.URL.Query().Get("search"),
		Published: queryBool(r, "published"),
	}
}

func (h *BlogHandler) listBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, pagination, err := h.blogService.ListBlogs(r.Context(), blogQuery(r))
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to retrieve blogs")
		return
	}
	common.RespondWithPage(w, http.StatusOK, "Blogs retrieved successfully", blogs, pagination)
}

func (h *BlogHandler) listPublishedBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, pagination, err := h.blogService.ListPublishedBlogs(r.Context(), blogQuery(r))
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to retrieve blogs")
		return
	}
	common.RespondWithPage(w, http.StatusOK, "Blogs retrieved successfully", blogs, pagination)
}

func (h *BlogHandler) listBlogsByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "authorId")
	blogs, pagination, err := h.blogService.ListBlogsByAuthor(r.Context(), authorID, blogQuery(r))
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to retrieve blogs by author")
		return
	}
	common.RespondWithPage(w, http.StatusOK, "Blogs retrieved successfully", blogs, pagination)
}

func (h *BlogHandler) getBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.blogService.GetBlog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to retrieve blog")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Blog retrieved successfully", blog)
}

func (h *BlogHandler) createBlog(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	blog, err := h.blogService.CreateBlog(r.Context(), identity, req)
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to create blog")
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, "Blog created successfully", blog)
}

func (h *BlogHandler) updateBlog(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	blog, err := h.blogService.UpdateBlog(r.Context(), identity, chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to update blog")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Blog updated successfully", blog)
}

func (h *BlogHandler) deleteBlog(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	blog, err := h.blogService.DeleteBlog(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithDomainError(w, err, "Failed to delete blog")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Blog deleted successfully", blog)
}
