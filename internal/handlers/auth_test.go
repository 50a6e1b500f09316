package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tasknexus/tasknexus-api/internal/dto"
	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/services"
)

func postJSON(t *testing.T, handler gin.HandlerFunc, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	r := gin.New()
	r.POST(url, handler)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	w := postJSON(t, env.authHandler.Register, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "Secret1",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, "alice", response.User.Username)
	require.Equal(t, "alice@x.com", response.User.Email)

	// The token embeds the registered identity.
	claims, err := env.tokens.Verify(response.Token)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, claims.UserID)
	require.Equal(t, "alice", claims.Username)

	// Registration provisions a default workspace with the owner membership
	// and a starter project.
	workspace := defaultWorkspace(t, env, response.User.ID)
	require.Equal(t, "alice Workspace", workspace.Name)

	var member models.WorkspaceMember
	require.NoError(t, env.db.Where("workspace_id = ? AND user_id = ?", workspace.ID, response.User.ID).First(&member).Error)
	require.Equal(t, models.RoleOwner, member.Role)

	project := defaultProject(t, env, workspace.ID)
	require.Equal(t, "My First Project", project.Name)
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	env := setupTestEnv(t)

	w := postJSON(t, env.authHandler.Register, "/api/auth/register", map[string]string{
		"username": "alice",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_DuplicateEmailRollsBack(t *testing.T) {
	env := setupTestEnv(t)

	registerTestUser(t, env, "alice", "alice@x.com")

	w := postJSON(t, env.authHandler.Register, "/api/auth/register", map[string]string{
		"username": "alice2",
		"email":    "alice@x.com",
		"password": "Secret1",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	// The failed registration left nothing behind: one user, one workspace,
	// one project from the first registration.
	var userCount, workspaceCount, projectCount int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, env.db.Model(&models.Workspace{}).Count(&workspaceCount).Error)
	require.NoError(t, env.db.Model(&models.Project{}).Count(&projectCount).Error)
	require.EqualValues(t, 1, userCount)
	require.EqualValues(t, 1, workspaceCount)
	require.EqualValues(t, 1, projectCount)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)

	user := registerTestUser(t, env, "bob", "bob@x.com")

	w := postJSON(t, env.authHandler.Login, "/api/auth/login", map[string]string{
		"email":    "bob@x.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, user.ID, response.User.ID)

	claims, err := env.tokens.Verify(response.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "bob@x.com", claims.Email)

	// The stored hash never appears in the response body.
	require.NotContains(t, w.Body.String(), user.PasswordHash)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupTestEnv(t)

	registerTestUser(t, env, "bob", "bob@x.com")

	w := postJSON(t, env.authHandler.Login, "/api/auth/login", map[string]string{
		"email":    "bob@x.com",
		"password": "not-the-password",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	env := setupTestEnv(t)

	w := postJSON(t, env.authHandler.Login, "/api/auth/login", map[string]string{
		"email":    "nobody@x.com",
		"password": "whatever",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	env := setupTestEnv(t)

	user := registerTestUser(t, env, "carol", "carol@x.com")

	c, w := authedContext(http.MethodGet, "/api/auth/me", nil, user)
	env.authHandler.Me(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.ID)
	require.Equal(t, "carol", response.Username)
	require.Equal(t, "carol@x.com", response.Email)
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	env := setupTestEnv(t)

	registered, err := env.authService.Register(services.RegisterInput{
		Username: "dave",
		Email:    "dave@x.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	loggedIn, err := env.authService.Login(services.LoginInput{
		Email:    "dave@x.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, loggedIn.User.ID)

	claims, err := env.tokens.Verify(loggedIn.Token)
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, claims.UserID)
}
