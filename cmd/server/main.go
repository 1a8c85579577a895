package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/proditto/portfolio-api/internal/api"
	"github.com/proditto/portfolio-api/internal/api/middleware"
	"github.com/proditto/portfolio-api/internal/app/service"
	"github.com/proditto/portfolio-api/internal/common/security"
	"github.com/proditto/portfolio-api/internal/domain/repository"
	"github.com/proditto/portfolio-api/internal/platform/cache"
	"github.com/proditto/portfolio-api/internal/platform/config"
	"github.com/proditto/portfolio-api/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	blogRepo := repository.NewPgBlogRepository(database.DB)
	projectRepo := repository.NewPgProjectRepository(database.DB)

	// 6. Initialize Services
	cfg := config.AppConfig
	authService := service.NewAuthService(userRepo, cache.RDB, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)
	userService := service.NewUserService(userRepo)
	blogService := service.NewBlogService(blogRepo)
	projectService := service.NewProjectService(projectRepo, cache.RDB, cfg.FeaturedCacheTTL)

	// 7. Seed owner account
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.SeedOwner(seedCtx, cfg.OwnerName, cfg.OwnerEmail, cfg.OwnerPassword); err != nil {
		log.Printf("WARN: owner seeding failed: %v", err)
	}
	seedCancel()

	// 8. Initialize Router & HTTP Server
	authmw := middleware.NewAuth(userRepo)
	router := api.NewRouter(authmw, authService, userService, blogService, projectService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
