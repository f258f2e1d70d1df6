package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/utils"
)

const (
	userIDKey = "userID"
	roleKey   = "userRole"
	orgIDKey  = "organizationID"
)

// Auth requires a valid "Authorization: Bearer <jwt>" header and exposes its claims to handlers.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		claims, err := utils.ParseToken(secret, token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, claims.Role)
		c.Set(orgIDKey, claims.OrganizationID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message":    msg,
		"code":       http.StatusUnauthorized,
		"request_id": GetRequestID(c),
	})
}

// UserID returns the authenticated user id, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// OrganizationID returns the organization claim of the authenticated user.
func OrganizationID(c *gin.Context) string {
	return c.GetString(orgIDKey)
}
