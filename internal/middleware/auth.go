package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kawasin/task-tracker/internal/auth"
	"github.com/kawasin/task-tracker/internal/constants"
	apierrors "github.com/kawasin/task-tracker/internal/errors"
)

// RequireAuth resolves the bearer token into a user ID and stores it in the
// context. Requests without a valid token never reach the handlers.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "Missing authentication token")
			c.Abort()
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			apierrors.Unauthorized(c, "Missing authentication token")
			c.Abort()
			return
		}

		userID, err := tokens.Validate(tokenStr)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				apierrors.Unauthorized(c, "Token has expired")
			} else {
				apierrors.Unauthorized(c, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
