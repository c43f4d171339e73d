package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"discts/utils"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards maintenance endpoints with a static bearer
// token. An empty token locks the group entirely.
func AdminAuthMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if adminToken == "" || subtle.ConstantTimeCompare([]byte(tokenString), []byte(adminToken)) != 1 {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized admin access", "ip: "+clientIP(c))
			c.Abort()
			return
		}

		c.Set("isAdmin", true)
		c.Next()
	}
}
