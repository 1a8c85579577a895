package api

import (
	"net/http"
	"time"

	"github.com/proditto/portfolio-api/internal/api/handler"
	"github.com/proditto/portfolio-api/internal/api/middleware"
	"github.com/proditto/portfolio-api/internal/app/service"
	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authmw *middleware.Auth,
	authService *service.AuthService,
	userService *service.UserService,
	blogService *service.BlogService,
	projectService *service.ProjectService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses and verifies a bearer token when present; the auth middleware
	// inspects the outcome on protected routes.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, "Portfolio API - Showcase Your Work", map[string]string{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   "1.0.0",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService, authmw)
		v1.Route("/auth", authHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService, authmw)
		v1.Route("/users", userHandler.RegisterRoutes)

		blogHandler := handler.NewBlogHandler(blogService, authmw)
		v1.Route("/blogs", blogHandler.RegisterRoutes)

		projectHandler := handler.NewProjectHandler(projectService, authmw)
		v1.Route("/projects", projectHandler.RegisterRoutes)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusNotFound, "Route "+r.URL.Path+" not found")
	})

	return r
}
