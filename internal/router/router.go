package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tasknexus/tasknexus-api/internal/auth"
	"github.com/tasknexus/tasknexus-api/internal/handlers"
	"github.com/tasknexus/tasknexus-api/internal/middleware"
)

// Handlers groups the handler sets the router wires up.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Workspace    *handlers.WorkspaceHandler
	Project      *handlers.ProjectHandler
	Task         *handlers.TaskHandler
	Notification *handlers.NotificationHandler
	Analytics    *handlers.AnalyticsHandler
}

// New builds the gin engine with all routes registered. Every route under
// /api except register and login requires a valid bearer token.
func New(h Handlers, tokens *auth.TokenManager, corsOrigin string) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if corsOrigin == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = []string{corsOrigin}
	}
	r.Use(cors.New(corsConfig))

	requireAuth := middleware.RequireAuth(tokens)

	r.GET("/health", handlers.HealthCheck)

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", h.Auth.Register)
			authRoutes.POST("/login", h.Auth.Login)
			authRoutes.GET("/me", requireAuth, h.Auth.Me)
		}

		workspaces := api.Group("/workspaces", requireAuth)
		{
			workspaces.GET("", h.Workspace.ListWorkspaces)
			workspaces.POST("", h.Workspace.CreateWorkspace)
			workspaces.DELETE("/:id", h.Workspace.DeleteWorkspace)
			workspaces.GET("/:id/members", h.Workspace.ListMembers)
			workspaces.POST("/:id/invite", h.Workspace.Invite)
		}

		projects := api.Group("/projects", requireAuth)
		{
			projects.GET("", h.Project.ListAllProjects)
			projects.GET("/workspace/:workspaceId", h.Project.ListProjects)
			projects.POST("", h.Project.CreateProject)
			projects.DELETE("/:id", h.Project.DeleteProject)
		}

		tasks := api.Group("/tasks", requireAuth)
		{
			tasks.GET("", h.Task.ListTasks)
			tasks.POST("", h.Task.CreateTask)
			tasks.PUT("/:id", h.Task.UpdateTask)
			tasks.DELETE("/:id", h.Task.DeleteTask)
		}

		notifications := api.Group("/notifications", requireAuth)
		{
			notifications.GET("", h.Notification.ListNotifications)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
		}

		analytics := api.Group("/analytics", requireAuth)
		{
			analytics.GET("/dashboard", h.Analytics.Dashboard)
		}
	}

	return r
}
