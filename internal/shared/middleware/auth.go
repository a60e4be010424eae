package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore-reporting/internal/shared/response"
	"bookstore-reporting/pkg/jwt"
	"bookstore-reporting/pkg/logger"
)

// AuthMiddleware - Middleware xác thực JWT access token (token do auth service phát hành)
func AuthMiddleware(verifier *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		// 3. Verify và parse JWT
		claims, err := verifier.ValidateAccessToken(parts[1])
		if errors.Is(err, jwt.ErrNotAccessToken) {
			response.Unauthorized(c, "access token required")
			return
		}
		if err != nil {
			logger.Debug("token rejected: " + err.Error())
			response.Unauthorized(c, "invalid token")
			return
		}

		// 4. Extract userID từ claims
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user ID in token")
			return
		}

		// 5. Set userID + role vào context (AdminMiddleware đọc "role")
		c.Set("userID", userID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
