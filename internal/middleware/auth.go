package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tasknexus/tasknexus-api/internal/auth"
	"github.com/tasknexus/tasknexus-api/internal/constants"
	apierrors "github.com/tasknexus/tasknexus-api/internal/errors"
)

// AuthenticatedUser is the identity extracted from a verified session token.
type AuthenticatedUser struct {
	ID       uint64
	Username string
	Email    string
}

// RequireAuth verifies the bearer token on the request and stores the
// caller's identity in the gin context. It must run before every
// non-public handler.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierrors.Unauthorized(c, "No token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierrors.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, AuthenticatedUser{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
		})
		c.Next()
	}
}

// GetCurrentUser retrieves the authenticated user from context
func GetCurrentUser(c *gin.Context) (AuthenticatedUser, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return AuthenticatedUser{}, false
	}

	user, ok := value.(AuthenticatedUser)
	if !ok {
		return AuthenticatedUser{}, false
	}

	return user, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	user, ok := GetCurrentUser(c)
	if !ok {
		return 0, false
	}
	return user.ID, true
}
