package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tasknexus/tasknexus-api/internal/auth"
	"github.com/tasknexus/tasknexus-api/internal/config"
	"github.com/tasknexus/tasknexus-api/internal/database"
	"github.com/tasknexus/tasknexus-api/internal/handlers"
	"github.com/tasknexus/tasknexus-api/internal/repository"
	"github.com/tasknexus/tasknexus-api/internal/router"
	"github.com/tasknexus/tasknexus-api/internal/services"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// The token secret lives only inside the manager.
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	activityService := services.NewActivityService(activityRepo)
	authService := services.NewAuthService(userRepo, tokens, activityService)
	workspaceService := services.NewWorkspaceService(workspaceRepo, userRepo, notificationRepo, activityService)
	projectService := services.NewProjectService(projectRepo, workspaceRepo, activityService)
	taskService := services.NewTaskService(taskRepo, projectRepo, workspaceRepo, notificationRepo, activityService)
	notificationService := services.NewNotificationService(notificationRepo)
	analyticsService := services.NewAnalyticsService(analyticsRepo, workspaceRepo)

	r := router.New(router.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Workspace:    handlers.NewWorkspaceHandler(workspaceService),
		Project:      handlers.NewProjectHandler(projectService),
		Task:         handlers.NewTaskHandler(taskService),
		Notification: handlers.NewNotificationHandler(notificationService),
		Analytics:    handlers.NewAnalyticsHandler(analyticsService),
	}, tokens, cfg.CORSOrigin)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
