package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tasknexus/tasknexus-api/internal/dto"
	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/services"
)

func TestWorkspaceHandler_CreateWorkspace(t *testing.T) {
	env := setupTestEnv(t)

	user := registerTestUser(t, env, "owner", "owner@x.com")

	body, err := json.Marshal(map[string]string{
		"name":        "Team Space",
		"description": "Where the team works",
	})
	require.NoError(t, err)

	c, w := authedContext(http.MethodPost, "/api/workspaces", body, user)
	env.workspaceHandler.CreateWorkspace(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.WorkspaceWithRoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Team Space", response.Name)
	require.Equal(t, models.RoleOwner, response.Role)

	var member models.WorkspaceMember
	require.NoError(t, env.db.Where("workspace_id = ? AND user_id = ?", response.ID, user.ID).First(&member).Error)
	require.Equal(t, models.RoleOwner, member.Role)
}

func TestWorkspaceHandler_ListWorkspaces(t *testing.T) {
	env := setupTestEnv(t)

	user := registerTestUser(t, env, "lister", "lister@x.com")
	other := registerTestUser(t, env, "other", "other@x.com")

	c, w := authedContext(http.MethodGet, "/api/workspaces", nil, user)
	env.workspaceHandler.ListWorkspaces(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response []dto.WorkspaceWithRoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	require.Equal(t, "lister Workspace", response[0].Name)
	require.Equal(t, models.RoleOwner, response[0].Role)

	// The other user's workspace never shows up.
	otherWorkspace := defaultWorkspace(t, env, other.ID)
	for _, ws := range response {
		require.NotEqual(t, otherWorkspace.ID, ws.ID)
	}
}

func TestWorkspaceHandler_DeleteWorkspace_Cascades(t *testing.T) {
	env := setupTestEnv(t)

	user := registerTestUser(t, env, "owner", "owner@x.com")
	workspace := defaultWorkspace(t, env, user.ID)
	project := defaultProject(t, env, workspace.ID)

	_, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:     "Doomed task",
		Priority:  models.TaskPriorityLow,
		ProjectID: project.ID,
		CreatorID: user.ID,
	})
	require.NoError(t, err)

	c, w := authedContext(http.MethodDelete, fmt.Sprintf("/api/workspaces/%d", workspace.ID), nil, user)
	c.Params = []gin.Param{{Key: "id", Value: fmt.Sprint(workspace.ID)}}
	env.workspaceHandler.DeleteWorkspace(c)

	require.Equal(t, http.StatusOK, w.Code)

	var workspaceCount, projectCount, taskCount, memberCount int64
	require.NoError(t, env.db.Model(&models.Workspace{}).Where("id = ?", workspace.ID).Count(&workspaceCount).Error)
	require.NoError(t, env.db.Model(&models.Project{}).Where("workspace_id = ?", workspace.ID).Count(&projectCount).Error)
	require.NoError(t, env.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&taskCount).Error)
	require.NoError(t, env.db.Model(&models.WorkspaceMember{}).Where("workspace_id = ?", workspace.ID).Count(&memberCount).Error)
	require.Zero(t, workspaceCount)
	require.Zero(t, projectCount)
	require.Zero(t, taskCount)
	require.Zero(t, memberCount)
}

func TestWorkspaceHandler_DeleteWorkspace_NonOwnerForbidden(t *testing.T) {
	env := setupTestEnv(t)

	owner := registerTestUser(t, env, "owner", "owner@x.com")
	member := registerTestUser(t, env, "member", "member@x.com")
	workspace := defaultWorkspace(t, env, owner.ID)

	require.NoError(t, env.workspaceService.Invite(workspace.ID, owner.ID, "member@x.com"))

	c, w := authedContext(http.MethodDelete, fmt.Sprintf("/api/workspaces/%d", workspace.ID), nil, member)
	c.Params = []gin.Param{{Key: "id", Value: fmt.Sprint(workspace.ID)}}
	env.workspaceHandler.DeleteWorkspace(c)

	require.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Workspace{}).Where("id = ?", workspace.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestWorkspaceHandler_ListMembers_NonMemberGets404(t *testing.T) {
	env := setupTestEnv(t)

	owner := registerTestUser(t, env, "owner", "owner@x.com")
	stranger := registerTestUser(t, env, "stranger", "stranger@x.com")
	workspace := defaultWorkspace(t, env, owner.ID)

	c, w := authedContext(http.MethodGet, fmt.Sprintf("/api/workspaces/%d/members", workspace.ID), nil, stranger)
	c.Params = []gin.Param{{Key: "id", Value: fmt.Sprint(workspace.ID)}}
	env.workspaceHandler.ListMembers(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspaceHandler_Invite(t *testing.T) {
	env := setupTestEnv(t)

	owner := registerTestUser(t, env, "owner", "owner@x.com")
	invitee := registerTestUser(t, env, "invitee", "invitee@x.com")
	workspace := defaultWorkspace(t, env, owner.ID)

	body, err := json.Marshal(map[string]string{"email": "invitee@x.com"})
	require.NoError(t, err)

	c, w := authedContext(http.MethodPost, fmt.Sprintf("/api/workspaces/%d/invite", workspace.ID), body, owner)
	c.Params = []gin.Param{{Key: "id", Value: fmt.Sprint(workspace.ID)}}
	env.workspaceHandler.Invite(c)

	require.Equal(t, http.StatusOK, w.Code)

	var member models.WorkspaceMember
	require.NoError(t, env.db.Where("workspace_id = ? AND user_id = ?", workspace.ID, invitee.ID).First(&member).Error)
	require.Equal(t, models.RoleMember, member.Role)

	// The invitee gets a notification about it.
	var notification models.Notification
	require.NoError(t, env.db.Where("user_id = ?", invitee.ID).First(&notification).Error)
	require.Equal(t, models.NotificationWorkspaceInvite, notification.Type)
	require.False(t, notification.Read)
}

func TestWorkspaceHandler_Invite_AlreadyMember(t *testing.T) {
	env := setupTestEnv(t)

	owner := registerTestUser(t, env, "owner", "owner@x.com")
	registerTestUser(t, env, "invitee", "invitee@x.com")
	workspace := defaultWorkspace(t, env, owner.ID)

	require.NoError(t, env.workspaceService.Invite(workspace.ID, owner.ID, "invitee@x.com"))

	var before int64
	require.NoError(t, env.db.Model(&models.WorkspaceMember{}).Where("workspace_id = ?", workspace.ID).Count(&before).Error)

	body, err := json.Marshal(map[string]string{"email": "invitee@x.com"})
	require.NoError(t, err)

	c, w := authedContext(http.MethodPost, fmt.Sprintf("/api/workspaces/%d/invite", workspace.ID), body, owner)
	c.Params = []gin.Param{{Key: "id", Value: fmt.Sprint(workspace.ID)}}
	env.workspaceHandler.Invite(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var after int64
	require.NoError(t, env.db.Model(&models.WorkspaceMember{}).Where("workspace_id = ?", workspace.ID).Count(&after).Error)
	require.Equal(t, before, after)
}

func TestWorkspaceHandler_Invite_UnknownEmail(t *testing.T) {
	env := setupTestEnv(t)

	owner := registerTestUser(t, env, "owner", "owner@x.com")
	workspace := defaultWorkspace(t, env, owner.ID)

	body, err := json.Marshal(map[string]string{"email": "ghost@x.com"})
	require.NoError(t, err)

	c, w := authedContext(http.MethodPost, fmt.Sprintf("/api/workspaces/%d/invite", workspace.ID), body, owner)
	c.Params = []gin.Param{{Key: "id", Value: fmt.Sprint(workspace.ID)}}
	env.workspaceHandler.Invite(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
