package middleware

import (
	"github.com/gin-gonic/gin"

	"bookstore-reporting/internal/shared/response"
)

const RoleAdmin = "admin"

// AdminMiddleware checks if user has admin role
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get role from context (set by AuthMiddleware)
		role, ok := c.Get("role")
		if !ok {
			response.Forbidden(c, "Access denied: admin role required")
			return
		}

		if r, ok := role.(string); !ok || r != RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			return
		}

		c.Next()
	}
}
