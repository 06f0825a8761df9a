package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"templatehub-backend-go/internal/auth"
	"templatehub-backend-go/internal/core"
	"templatehub-backend-go/internal/models"
)

// Context keys populated by VerifyToken.
const (
	ContextUserIDKey = "userID"
	ContextActorKey  = "actor"
)

// AuthMiddleware resolves the bearer token into the acting user.
type AuthMiddleware struct {
	tokens *auth.TokenManager
	users  core.UserService
	logger *zap.Logger
}

// NewAuthMiddleware creates an AuthMiddleware.
func NewAuthMiddleware(tokens *auth.TokenManager, users core.UserService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger}
}

// VerifyToken validates the Authorization header, loads the account and
// stores it in the request context. Banned accounts are rejected here so no
// downstream handler has to check.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header required",
			})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header must be in 'Bearer {token}' format",
			})
			return
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			m.logger.Warn("token subject not resolvable",
				zap.String("userID", claims.UserID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}
		if user.Status == models.UserBanned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Account is banned",
			})
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextActorKey, user)
		c.Next()
	}
}

// RequireAdmin rejects non-admin actors. Must run after VerifyToken.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil || !actor.Role.CanReview() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Access denied: Admins only",
			})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the authenticated user stored by VerifyToken, or nil.
func ActorFrom(c *gin.Context) *models.User {
	v, ok := c.Get(ContextActorKey)
	if !ok {
		return nil
	}
	actor, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return actor
}
