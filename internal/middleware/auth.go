package middleware

import (
	"strings"

	"favorx_backend/internal/auth"
	"favorx_backend/internal/logger"
	"favorx_backend/internal/models"
	"favorx_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and stores the caller's identity
// in both the gin context and the request context (for log correlation).
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortWithError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			abortWithError(c, apperrors.NewUnauthorizedError("Invalid or expired token"))
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles admits only the listed roles. Stack it after AuthMiddleware.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := currentRole(c)
		if !ok || !roleSet[role] {
			abortWithError(c, apperrors.NewForbiddenError("Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequireModerator admits moderators and admins.
func RequireModerator() gin.HandlerFunc {
	return RequireRoles(models.UserRoleModerator, models.UserRoleAdmin)
}

func currentRole(c *gin.Context) (models.UserRole, bool) {
	roleVal, exists := c.Get("role")
	if !exists {
		return "", false
	}
	if role, ok := roleVal.(models.UserRole); ok {
		return role, true
	}
	if roleStr, ok := roleVal.(string); ok {
		return models.UserRole(roleStr), true
	}
	return "", false
}

// GetUserID reads the authenticated user id set by AuthMiddleware.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, _ := userID.(string)
	return id
}

func abortWithError(c *gin.Context, err *apperrors.AppError) {
	c.Abort()
	apperrors.HandleError(c, err)
}
