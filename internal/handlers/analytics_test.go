package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/repository"
	"github.com/tasknexus/tasknexus-api/internal/services"
)

func TestAnalyticsHandler_Dashboard(t *testing.T) {
	env := setupTestEnv(t)

	user := registerTestUser(t, env, "analyst", "analyst@x.com")
	workspace := defaultWorkspace(t, env, user.ID)
	project := defaultProject(t, env, workspace.ID)

	overdue := time.Now().Add(-48 * time.Hour)
	seed := []struct {
		title    string
		priority models.TaskPriority
		status   models.TaskStatus
		dueDate  *time.Time
	}{
		{"done one", models.TaskPriorityHigh, models.TaskStatusDone, nil},
		{"done two", models.TaskPriorityLow, models.TaskStatusDone, nil},
		{"in flight", models.TaskPriorityMedium, models.TaskStatusInProgress, nil},
		{"late", models.TaskPriorityUrgent, models.TaskStatusTodo, &overdue},
	}
	for _, s := range seed {
		task, err := env.taskService.CreateTask(services.CreateTaskInput{
			Title:     s.title,
			Priority:  s.priority,
			DueDate:   s.dueDate,
			ProjectID: project.ID,
			CreatorID: user.ID,
		})
		require.NoError(t, err)
		if s.status != models.TaskStatusTodo {
			_, err = env.taskService.UpdateTaskStatus(task.ID, user.ID, s.status)
			require.NoError(t, err)
		}
	}

	c, w := authedContext(http.MethodGet, "/api/analytics/dashboard", nil, user)
	env.analyticsHandler.Dashboard(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stats repository.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.EqualValues(t, 4, stats.TotalTasks)
	require.EqualValues(t, 2, stats.CompletedTasks)
	require.EqualValues(t, 1, stats.InProgressTasks)
	require.EqualValues(t, 1, stats.OverdueTasks)
	require.EqualValues(t, 1, stats.TotalProjects)
	require.EqualValues(t, 1, stats.TotalWorkspaces)

	byStatus := map[models.TaskStatus]int64{}
	for _, sc := range stats.TasksByStatus {
		byStatus[sc.Status] = sc.Count
	}
	require.EqualValues(t, 2, byStatus[models.TaskStatusDone])
	require.EqualValues(t, 1, byStatus[models.TaskStatusInProgress])
	require.EqualValues(t, 1, byStatus[models.TaskStatusTodo])

	byPriority := map[models.TaskPriority]int64{}
	for _, pc := range stats.TasksByPriority {
		byPriority[pc.Priority] = pc.Count
	}
	require.EqualValues(t, 1, byPriority[models.TaskPriorityHigh])
	require.EqualValues(t, 1, byPriority[models.TaskPriorityLow])
	require.EqualValues(t, 1, byPriority[models.TaskPriorityMedium])
	require.EqualValues(t, 1, byPriority[models.TaskPriorityUrgent])
}

func TestAnalyticsHandler_Dashboard_CountsOnlyOwnWorkspaces(t *testing.T) {
	env := setupTestEnv(t)

	user := registerTestUser(t, env, "analyst", "analyst@x.com")
	other := registerTestUser(t, env, "other", "other@x.com")

	otherWorkspace := defaultWorkspace(t, env, other.ID)
	otherProject := defaultProject(t, env, otherWorkspace.ID)
	_, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:     "not visible",
		Priority:  models.TaskPriorityLow,
		ProjectID: otherProject.ID,
		CreatorID: other.ID,
	})
	require.NoError(t, err)

	c, w := authedContext(http.MethodGet, "/api/analytics/dashboard", nil, user)
	env.analyticsHandler.Dashboard(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stats repository.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.EqualValues(t, 0, stats.TotalTasks)
	require.EqualValues(t, 1, stats.TotalProjects)
	require.EqualValues(t, 1, stats.TotalWorkspaces)
}
