package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tasknexus/tasknexus-api/internal/auth"
	"github.com/tasknexus/tasknexus-api/internal/constants"
	"github.com/tasknexus/tasknexus-api/internal/database"
	"github.com/tasknexus/tasknexus-api/internal/middleware"
	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/repository"
	"github.com/tasknexus/tasknexus-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db     *gorm.DB
	tokens *auth.TokenManager

	authHandler         *AuthHandler
	workspaceHandler    *WorkspaceHandler
	projectHandler      *ProjectHandler
	taskHandler         *TaskHandler
	notificationHandler *NotificationHandler
	analyticsHandler    *AnalyticsHandler

	authService      *services.AuthService
	workspaceService *services.WorkspaceService
	projectService   *services.ProjectService
	taskService      *services.TaskService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Project{},
		&models.Task{},
		&models.Notification{},
		&models.ActivityLog{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	tokens := auth.NewTokenManager("test-secret")

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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:                  db,
		tokens:              tokens,
		authHandler:         NewAuthHandler(authService),
		workspaceHandler:    NewWorkspaceHandler(workspaceService),
		projectHandler:      NewProjectHandler(projectService),
		taskHandler:         NewTaskHandler(taskService),
		notificationHandler: NewNotificationHandler(notificationService),
		analyticsHandler:    NewAnalyticsHandler(analyticsService),
		authService:         authService,
		workspaceService:    workspaceService,
		projectService:      projectService,
		taskService:         taskService,
	}
}

// registerTestUser creates a user through the registration flow, which also
// gives them a default workspace and starter project.
func registerTestUser(t *testing.T, env testEnv, username, email string) *models.User {
	t.Helper()

	result, err := env.authService.Register(services.RegisterInput{
		Username: username,
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)

	return result.User
}

// authedContext builds a gin test context carrying the given user's identity,
// as RequireAuth would after verifying a token.
func authedContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUser, middleware.AuthenticatedUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})

	return c, w
}

// defaultWorkspace returns the workspace created for the user at registration.
func defaultWorkspace(t *testing.T, env testEnv, userID uint64) *models.Workspace {
	t.Helper()

	var workspace models.Workspace
	require.NoError(t, env.db.Where("owner_id = ?", userID).First(&workspace).Error)
	return &workspace
}

// defaultProject returns the starter project in the user's default workspace.
func defaultProject(t *testing.T, env testEnv, workspaceID uint64) *models.Project {
	t.Helper()

	var project models.Project
	require.NoError(t, env.db.Where("workspace_id = ?", workspaceID).First(&project).Error)
	return &project
}
